package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings controls the generator itself, not the component.
type Settings struct {
	Log struct {
		Level string
	}
	ConfigPath string        // YAML file holding the ftp_http_proxy section
	OutputPath string        // generated code destination, empty for stdout
	Watch      bool          // regenerate on file changes
	Probe      bool          // try an FTP login before generating
	Debounce   time.Duration // delay between a change and regeneration
}

// LoadFromEnvironment applies environment variables on top of the current values.
func (s *Settings) LoadFromEnvironment() error {
	// Log Level - support different formats
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		s.Log.Level = logLevel
	} else if logLevel := os.Getenv("log.level"); logLevel != "" {
		s.Log.Level = logLevel
	}

	if path := os.Getenv("PROXY_CONFIG"); path != "" {
		s.ConfigPath = path
	}
	if path := os.Getenv("PROXY_OUTPUT"); path != "" {
		s.OutputPath = path
	}

	if watch := os.Getenv("PROXY_WATCH"); watch != "" {
		val, err := strconv.ParseBool(watch)
		if err != nil {
			return fmt.Errorf("PROXY_WATCH: %w", err)
		}
		s.Watch = val
	}

	if debounce := os.Getenv("PROXY_WATCH_DEBOUNCE"); debounce != "" {
		val, err := strconv.Atoi(debounce)
		if err != nil || val <= 0 {
			return fmt.Errorf("PROXY_WATCH_DEBOUNCE must be a positive number of milliseconds: %q", debounce)
		}
		s.Debounce = time.Duration(val) * time.Millisecond
	}

	return nil
}

// SetDefaults fills in unset values.
func (s *Settings) SetDefaults() {
	if s.Log.Level == "" {
		s.Log.Level = "INFO"
	}
	if s.ConfigPath == "" {
		s.ConfigPath = "proxy.yaml"
	}
	if s.Debounce == 0 {
		s.Debounce = 300 * time.Millisecond
	}
}

// Validate checks the settings for completeness.
func (s *Settings) Validate() error {
	if s.ConfigPath == "" {
		return fmt.Errorf("no configuration file given")
	}
	if s.Watch && s.OutputPath == "" {
		return fmt.Errorf("watch mode needs an output file")
	}
	return nil
}

// GetLogLevel returns the configured log level.
func (s *Settings) GetLogLevel() string {
	level := strings.ToUpper(s.Log.Level)
	switch level {
	case "DEBUG", "INFO", "WARN", "ERROR":
		return level
	default:
		return "INFO"
	}
}
