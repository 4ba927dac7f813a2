package services

import (
	"bytes"
	"context"
	"fmt"
	"ftp-http-proxy/codegen"
	"ftp-http-proxy/config"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Generator runs load, validate, emit and render for one configuration file.
type Generator struct {
	ConfigPath string
	OutputPath string    // empty writes to Stdout
	Stdout     io.Writer // defaults to os.Stdout
	Prober     *Prober   // optional login check before writing
}

func NewGenerator(s *config.Settings) *Generator {
	g := &Generator{
		ConfigPath: s.ConfigPath,
		OutputPath: s.OutputPath,
		Stdout:     os.Stdout,
	}
	if s.Probe {
		g.Prober = NewProber()
	}
	return g
}

// Run generates the component code. Nothing is written if any step fails.
func (g *Generator) Run(ctx context.Context) (*config.ProxyConfig, error) {
	loader := &config.Loader{LookupEnv: g.lookupEnv()}
	raw, err := loader.Load(g.ConfigPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("ungültige Konfiguration in %s: %w", g.ConfigPath, err)
	}
	slog.Debug("Konfiguration validiert", "config", cfg)

	if g.Prober != nil {
		if err := g.Prober.Probe(ctx, cfg); err != nil {
			return nil, err
		}
	}

	instructions := codegen.Emit(cfg)
	for _, in := range instructions {
		slog.Debug("Instruktion erzeugt", "instruction", redact(in))
	}

	var buf bytes.Buffer
	if err := codegen.RenderCpp(&buf, instructions); err != nil {
		return nil, err
	}

	if err := g.write(buf.Bytes()); err != nil {
		return nil, err
	}
	slog.Info("Code erzeugt", "id", cfg.ID, "instructions", len(instructions), "output", g.outputName())
	return cfg, nil
}

// lookupEnv resolves !env_var from the process environment first and the
// .env file next to the configuration second. The file is re-read on every
// run so watch mode picks up edits.
func (g *Generator) lookupEnv() func(string) (string, bool) {
	dotenv, err := godotenv.Read(g.envFile())
	if err != nil && !os.IsNotExist(err) {
		slog.Warn("Fehler beim Lesen der .env-Datei", "file", g.envFile(), "error", err)
	}
	return func(name string) (string, bool) {
		if value, ok := os.LookupEnv(name); ok {
			return value, true
		}
		value, ok := dotenv[name]
		return value, ok
	}
}

func (g *Generator) envFile() string {
	return filepath.Join(filepath.Dir(g.ConfigPath), ".env")
}

func (g *Generator) write(data []byte) error {
	if g.OutputPath == "" {
		out := g.Stdout
		if out == nil {
			out = os.Stdout
		}
		_, err := out.Write(data)
		return err
	}

	// write-then-rename, readers never see a partial file
	dir := filepath.Dir(g.OutputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("fehler beim Erstellen von %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(g.OutputPath)+".*")
	if err != nil {
		return fmt.Errorf("fehler beim Schreiben von %s: %w", g.OutputPath, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("fehler beim Schreiben von %s: %w", g.OutputPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("fehler beim Schreiben von %s: %w", g.OutputPath, err)
	}
	if err := os.Rename(tmp.Name(), g.OutputPath); err != nil {
		return fmt.Errorf("fehler beim Schreiben von %s: %w", g.OutputPath, err)
	}
	return nil
}

func (g *Generator) outputName() string {
	if g.OutputPath == "" {
		return "stdout"
	}
	return g.OutputPath
}

// WatchedFiles lists the files whose changes affect the generated code.
func (g *Generator) WatchedFiles() []string {
	dir := filepath.Dir(g.ConfigPath)
	return []string{
		g.ConfigPath,
		filepath.Join(dir, config.SecretsFile),
		g.envFile(),
	}
}

func redact(in codegen.Instruction) string {
	if in.Setter == codegen.SetPassword {
		in.Value = "***"
	}
	return in.String()
}
