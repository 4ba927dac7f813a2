package services

import (
	"context"
	"fmt"
	"ftp-http-proxy/config"
	"log/slog"
	"time"

	"github.com/jlaffaye/ftp"
)

// FTPConn is the part of *ftp.ServerConn the probe needs.
type FTPConn interface {
	Login(user, password string) error
	Quit() error
}

// DialFunc opens a control connection to addr.
type DialFunc func(ctx context.Context, addr string, timeout time.Duration) (FTPConn, error)

// Prober checks that the configured FTP credentials are accepted.
type Prober struct {
	Dial    DialFunc
	Timeout time.Duration
}

func NewProber() *Prober {
	return &Prober{Dial: dialFTP, Timeout: 30 * time.Second}
}

func dialFTP(ctx context.Context, addr string, timeout time.Duration) (FTPConn, error) {
	conn, err := ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(timeout))
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Probe stellt eine FTP-Verbindung her, meldet sich an und trennt sofort wieder.
func (p *Prober) Probe(ctx context.Context, cfg *config.ProxyConfig) error {
	addr := cfg.FTPAddress()
	slog.Info("Prüfe FTP-Anmeldung", "server", addr, "username", cfg.Username)

	client, err := p.Dial(ctx, addr, p.Timeout)
	if err != nil {
		return fmt.Errorf("FTP-Verbindung zu %s fehlgeschlagen: %w", addr, err)
	}

	if err := client.Login(cfg.Username, cfg.Password); err != nil {
		_ = client.Quit()
		return fmt.Errorf("FTP-Anmeldung an %s fehlgeschlagen: %w", addr, err)
	}

	if err := client.Quit(); err != nil {
		slog.Warn("Fehler beim Beenden der FTP-Verbindung", "server", addr, "error", err)
	}
	slog.Info("FTP-Anmeldung erfolgreich", "server", addr)
	return nil
}
