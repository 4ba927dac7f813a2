package config

import (
	"log/slog"
	"net"
	"strconv"
)

// DefaultFTPPort is used when the server value carries no port.
const DefaultFTPPort = 21

// ProxyConfig is a fully validated ftp_http_proxy configuration.
type ProxyConfig struct {
	ID         string `yaml:"id"`
	Server     string `yaml:"server"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SharedPath string `yaml:"shared_path"`
	LocalPort  int    `yaml:"local_port"`
}

// Map returns the validated mapping, keyed by option name.
func (c *ProxyConfig) Map() map[string]any {
	return map[string]any{
		KeyID:         c.ID,
		KeyServer:     c.Server,
		KeyUsername:   c.Username,
		KeyPassword:   c.Password,
		KeySharedPath: c.SharedPath,
		KeyLocalPort:  c.LocalPort,
	}
}

// FTPAddress returns host:port of the FTP server, defaulting to port 21.
func (c *ProxyConfig) FTPAddress() string {
	if _, _, err := net.SplitHostPort(c.Server); err == nil {
		return c.Server
	}
	return net.JoinHostPort(c.Server, strconv.Itoa(DefaultFTPPort))
}

// LogValue hides the password in log output.
func (c *ProxyConfig) LogValue() slog.Value {
	password := ""
	if c.Password != "" {
		password = "***"
	}
	return slog.GroupValue(
		slog.String(KeyID, c.ID),
		slog.String(KeyServer, c.Server),
		slog.String(KeyUsername, c.Username),
		slog.String(KeyPassword, password),
		slog.String(KeySharedPath, c.SharedPath),
		slog.Int(KeyLocalPort, c.LocalPort),
	)
}
