package main

import (
	"bytes"
	"context"
	"ftp-http-proxy/config"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `ftp_http_proxy:
  id: proxy1
  server: 10.0.0.5
  username: u
  password: p
  shared_path: /share
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "proxy.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Fehler beim Schreiben von proxy.yaml: %v", err)
	}
	return path
}

func TestRun(t *testing.T) {
	tests := []struct {
		name           string
		config         string
		args           func(path string) []string
		expectCode     int
		expectStdout   string
		expectStderr   string
		expectNoStdout bool
	}{
		{
			name:   "generates code to stdout",
			config: validConfig,
			args:   func(path string) []string { return []string{"--config", path} },
			expectStdout: `// ftp_http_proxy:
auto *proxy1 = new esphome::ftp_http_proxy::FTPHTTPProxy();
App.register_component(proxy1);
proxy1->set_ftp_server("10.0.0.5");
proxy1->set_username("u");
proxy1->set_password("p");
proxy1->set_shared_path("/share");
proxy1->set_local_port(8000);
`,
		},
		{
			name:           "missing required option",
			config:         strings.Replace(validConfig, "  password: p\n", "", 1),
			args:           func(path string) []string { return []string{"--config", path} },
			expectCode:     1,
			expectStderr:   "required key not provided: password",
			expectNoStdout: true,
		},
		{
			name:           "port out of range",
			config:         validConfig + "  local_port: 70000\n",
			args:           func(path string) []string { return []string{"--config", path} },
			expectCode:     1,
			expectStderr:   "local_port",
			expectNoStdout: true,
		},
		{
			name:         "schema",
			args:         func(string) []string { return []string{"--schema"} },
			expectStdout: "ftp_http_proxy:\n",
		},
		{
			name:           "help",
			args:           func(string) []string { return []string{"--help"} },
			expectStderr:   "USAGE:",
			expectNoStdout: true,
		},
		{
			name:           "invalid log level",
			args:           func(path string) []string { return []string{"--log-level", "TRACE", "--config", path} },
			expectCode:     1,
			expectStderr:   "invalid log level",
			expectNoStdout: true,
		},
		{
			name:           "watch without output",
			config:         validConfig,
			args:           func(path string) []string { return []string{"--watch", "--config", path} },
			expectCode:     1,
			expectStderr:   "watch mode needs an output file",
			expectNoStdout: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defaultLogger := slog.Default()
			defer slog.SetDefault(defaultLogger)

			path := filepath.Join(t.TempDir(), "none.yaml")
			if tt.config != "" {
				path = writeConfig(t, tt.config)
			}

			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args(path), &stdout, &stderr)

			if code != tt.expectCode {
				t.Errorf("run() = %d, want %d (stderr: %s)", code, tt.expectCode, stderr.String())
			}
			if tt.expectStdout != "" && !strings.HasPrefix(stdout.String(), tt.expectStdout) {
				t.Errorf("stdout =\n%s\nwant prefix\n%s", stdout.String(), tt.expectStdout)
			}
			if tt.expectNoStdout && stdout.Len() != 0 {
				t.Errorf("stdout should be empty, got %q", stdout.String())
			}
			if tt.expectStderr != "" && !strings.Contains(stderr.String(), tt.expectStderr) {
				t.Errorf("stderr should contain %q, got %q", tt.expectStderr, stderr.String())
			}
		})
	}
}

func TestRun_WatchStopsWithContext(t *testing.T) {
	defaultLogger := slog.Default()
	defer slog.SetDefault(defaultLogger)

	path := writeConfig(t, validConfig)
	output := filepath.Join(filepath.Dir(path), "out.cpp")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"--watch", "--config", path, "--output", output}, &stdout, &stderr)
	if code != 0 {
		t.Errorf("run() = %d, want 0 (stderr: %s)", code, stderr.String())
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("initial generation did not write %s: %v", output, err)
	}
}

func TestSetupLogger(t *testing.T) {
	defaultLogger := slog.Default()
	defer slog.SetDefault(defaultLogger)

	tests := []struct {
		level       string
		debugActive bool
		warnActive  bool
	}{
		{"DEBUG", true, true},
		{"INFO", false, true},
		{"ERROR", false, false},
		{"bogus", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			s := &config.Settings{}
			s.Log.Level = tt.level
			var buf bytes.Buffer
			setupLogger(s, &buf)

			ctx := context.Background()
			if got := slog.Default().Enabled(ctx, slog.LevelDebug); got != tt.debugActive {
				t.Errorf("debug enabled = %v, want %v", got, tt.debugActive)
			}
			if got := slog.Default().Enabled(ctx, slog.LevelWarn); got != tt.warnActive {
				t.Errorf("warn enabled = %v, want %v", got, tt.warnActive)
			}
		})
	}
}
