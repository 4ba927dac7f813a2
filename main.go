package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"ftp-http-proxy/config"
	"ftp-http-proxy/services"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func setupLogger(cfg *config.Settings, w io.Writer) {
	levelStr := cfg.GetLogLevel()
	var lvl slog.Level
	switch levelStr {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "INFO":
		lvl = slog.LevelInfo
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	logger := slog.New(handler)
	slog.SetDefault(logger)
}

// loadSettings applies, in order: defaults, environment (.env included), CLI.
func loadSettings(cli *config.CLIConfig) (*config.Settings, error) {
	// .env laden (optional)
	_ = godotenv.Load()

	s := &config.Settings{}
	if err := s.LoadFromEnvironment(); err != nil {
		return nil, fmt.Errorf("fehler beim Laden der Umgebungsvariablen: %w", err)
	}
	cli.ApplyToSettings(s)
	s.SetDefaults()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cliCfg, err := config.ParseCLI("ftp-http-proxy", args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Fehler in Kommandozeilen-Argumenten: %v\n", err)
		return 1
	}
	if err := cliCfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Fehler in Kommandozeilen-Argumenten: %v\n", err)
		return 1
	}

	if cliCfg.ShowSchema {
		if err := config.PrintSchema(stdout); err != nil {
			return 1
		}
		return 0
	}

	settings, err := loadSettings(cliCfg)
	if err != nil {
		fmt.Fprintf(stderr, "Ungültige Einstellungen: %v\n", err)
		return 1
	}

	// logs go to stderr, stdout may carry the generated code
	setupLogger(settings, stderr)

	gen := services.NewGenerator(settings)
	gen.Stdout = stdout

	if _, err := gen.Run(ctx); err != nil {
		slog.Error("Codegenerierung fehlgeschlagen", "error", err)
		if !settings.Watch {
			return 1
		}
	}

	if !settings.Watch {
		return 0
	}

	watcher, err := services.NewConfigWatcher(gen.WatchedFiles(), settings.Debounce, func(ctx context.Context) error {
		_, err := gen.Run(ctx)
		return err
	})
	if err != nil {
		slog.Error("Fehler beim Initialisieren des Config-Watchers", "error", err)
		return 1
	}
	if err := watcher.Run(ctx); err != nil {
		slog.Error("Config-Watcher Fehler", "error", err)
		return 1
	}
	return 0
}

func main() {
	// Graceful Shutdown Handler
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
