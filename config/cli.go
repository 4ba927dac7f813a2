package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// CLIConfig holds command line argument configuration
type CLIConfig struct {
	LogLevel   string
	ConfigPath string
	OutputPath string
	Watch      bool
	Probe      bool
	ShowSchema bool
	ShowHelp   bool
}

// ParseCLI parses command line arguments (without the program name).
// flag.ErrHelp is returned for -h/--help after the usage has been printed.
func ParseCLI(name string, args []string, stderr io.Writer) (*CLIConfig, error) {
	cfg := &CLIConfig{}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Set log level (DEBUG, INFO, WARN, ERROR)")
	fs.StringVar(&cfg.ConfigPath, "config", "", "YAML file with the ftp_http_proxy section")
	fs.StringVar(&cfg.OutputPath, "output", "", "Write generated code to this file instead of stdout")
	fs.BoolVar(&cfg.Watch, "watch", false, "Regenerate whenever the configuration changes")
	fs.BoolVar(&cfg.Probe, "probe", false, "Log in to the FTP server before generating")
	fs.BoolVar(&cfg.ShowSchema, "schema", false, "Print the recognized options and exit")
	fs.Usage = func() { printUsage(stderr, name) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			cfg.ShowHelp = true
		}
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return cfg, nil
}

// ApplyToSettings applies CLI configuration to Settings
func (cli *CLIConfig) ApplyToSettings(s *Settings) {
	if cli.LogLevel != "" {
		s.Log.Level = cli.LogLevel
	}
	if cli.ConfigPath != "" {
		s.ConfigPath = cli.ConfigPath
	}
	if cli.OutputPath != "" {
		s.OutputPath = cli.OutputPath
	}
	if cli.Watch {
		s.Watch = true
	}
	if cli.Probe {
		s.Probe = true
	}
}

// Validate validates CLI configuration
func (cli *CLIConfig) Validate() error {
	if cli.LogLevel != "" {
		level := strings.ToUpper(cli.LogLevel)
		if level != "DEBUG" && level != "INFO" && level != "WARN" && level != "ERROR" {
			return fmt.Errorf("invalid log level: %s (allowed: DEBUG, INFO, WARN, ERROR)", cli.LogLevel)
		}
	}
	return nil
}

// PrintSchema writes the option registry.
func PrintSchema(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s:\n", ComponentKey); err != nil {
		return err
	}
	for _, opt := range Options() {
		line := fmt.Sprintf("  %-12s %-7s required", opt.Name, opt.Kind)
		if !opt.Required {
			line = fmt.Sprintf("  %-12s %-7s optional, default %v", opt.Name, opt.Kind, opt.Default)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// printUsage prints the usage information
func printUsage(w io.Writer, name string) {
	_, err := fmt.Fprintf(w, `ftp-http-proxy - Code generator for the ftp_http_proxy component

USAGE:
    %s [OPTIONS]

OPTIONS:
    --config FILE        YAML file containing the ftp_http_proxy section
                        Default: proxy.yaml

    --output FILE        Write the generated statements to FILE
                        Default: stdout

    --log-level LEVEL    Set log level (DEBUG, INFO, WARN, ERROR)
                        Default: INFO

    --watch              Regenerate whenever the config, secrets.yaml or .env change
                        Requires --output

    --probe              Log in to the configured FTP server before generating

    --schema             Print the recognized options and exit

    -h, --help           Show this help message

CONFIGURATION FILE:
    ftp_http_proxy:
      id: proxy1
      server: 10.0.0.5
      username: !env_var FTP_USER
      password: !secret ftp_password
      shared_path: /share
      local_port: 8000          # optional

CONFIGURATION PRIORITY:
    1. Command line arguments (highest)
    2. Environment variables (LOG_LEVEL, PROXY_CONFIG, PROXY_OUTPUT, PROXY_WATCH)
    3. Default values (lowest)

`, name)
	if err != nil {
		return
	}
}
