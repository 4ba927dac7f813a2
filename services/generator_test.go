package services

import (
	"bytes"
	"context"
	"errors"
	"ftp-http-proxy/config"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testProxyYAML = `ftp_http_proxy:
  id: proxy1
  server: 10.0.0.5
  username: u
  password: p
  shared_path: /share
`

// writeTestFile writes content to dir/name and returns the path
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Fehler beim Schreiben von %s: %v", path, err)
	}
	return path
}

func TestGenerator_RunToStdout(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestFile(t, dir, "proxy.yaml", testProxyYAML)

	var out bytes.Buffer
	g := &Generator{ConfigPath: configPath, Stdout: &out}
	cfg, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if cfg.LocalPort != config.DefaultLocalPort {
		t.Errorf("LocalPort = %d, want %d", cfg.LocalPort, config.DefaultLocalPort)
	}
	if !strings.Contains(out.String(), "proxy1->set_local_port(8000);") {
		t.Errorf("output misses local port setter:\n%s", out.String())
	}
}

func TestGenerator_RunToFile(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestFile(t, dir, "proxy.yaml", testProxyYAML)
	outputPath := filepath.Join(dir, "gen", "ftp_http_proxy.cpp")

	g := &Generator{ConfigPath: configPath, OutputPath: outputPath}
	if _, err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "// ftp_http_proxy:\n") {
		t.Errorf("unexpected output:\n%s", data)
	}

	entries, _ := os.ReadDir(filepath.Dir(outputPath))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestGenerator_InvalidConfigWritesNothing(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestFile(t, dir, "proxy.yaml", `ftp_http_proxy:
  id: proxy1
  server: 10.0.0.5
  username: u
  shared_path: /share
  local_port: 0
`)
	outputPath := filepath.Join(dir, "out.cpp")
	writeTestFile(t, dir, "out.cpp", "previous")

	g := &Generator{ConfigPath: configPath, OutputPath: outputPath}
	_, err := g.Run(context.Background())
	if !errors.Is(err, config.ErrMissingOption) || !errors.Is(err, config.ErrInvalidValue) {
		t.Errorf("Run() error = %v, want missing password and invalid port", err)
	}

	data, _ := os.ReadFile(outputPath)
	if string(data) != "previous" {
		t.Errorf("output was modified: %q", data)
	}
}

func TestGenerator_DotEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestFile(t, dir, "proxy.yaml", `ftp_http_proxy:
  id: proxy1
  server: 10.0.0.5
  username: !env_var PROXY_TEST_DOTENV_USER
  password: p
  shared_path: /share
`)
	writeTestFile(t, dir, ".env", "PROXY_TEST_DOTENV_USER=fromfile\n")

	var out bytes.Buffer
	g := &Generator{ConfigPath: configPath, Stdout: &out}
	cfg, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if cfg.Username != "fromfile" {
		t.Errorf("Username = %q, want fromfile", cfg.Username)
	}

	// the process environment wins over .env
	t.Setenv("PROXY_TEST_DOTENV_USER", "fromenv")
	cfg, err = g.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if cfg.Username != "fromenv" {
		t.Errorf("Username = %q, want fromenv", cfg.Username)
	}
}

func TestGenerator_ProbeFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestFile(t, dir, "proxy.yaml", testProxyYAML)

	var out bytes.Buffer
	g := &Generator{
		ConfigPath: configPath,
		Stdout:     &out,
		Prober:     &Prober{Dial: failingDial(errors.New("connection refused"))},
	}
	if _, err := g.Run(context.Background()); err == nil {
		t.Fatal("Run() expected probe error")
	}
	if out.Len() != 0 {
		t.Errorf("output written despite failed probe: %q", out.String())
	}
}

func TestNewGenerator(t *testing.T) {
	s := &config.Settings{ConfigPath: "/etc/proxy.yaml", OutputPath: "/tmp/out.cpp", Probe: true}
	g := NewGenerator(s)

	if g.ConfigPath != s.ConfigPath || g.OutputPath != s.OutputPath {
		t.Errorf("NewGenerator() paths = %s, %s", g.ConfigPath, g.OutputPath)
	}
	if g.Prober == nil {
		t.Error("Prober should be set when probing is enabled")
	}

	files := g.WatchedFiles()
	expected := []string{"/etc/proxy.yaml", "/etc/secrets.yaml", "/etc/.env"}
	if strings.Join(files, ",") != strings.Join(expected, ",") {
		t.Errorf("WatchedFiles() = %v, want %v", files, expected)
	}
}
