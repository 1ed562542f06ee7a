package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds the daemon's runtime settings, read from the environment
type Config struct {
	// Addr is the host:port the HTTP API listens on
	Addr string `env:"TABLERO_DAEMON_ADDR" envDefault:"127.0.0.1:7450"`
	// DBPath is the SQLite database location. Empty means ~/.tablero/tablero.db
	DBPath string `env:"TABLERO_DB_PATH"`
	// PolicyPath optionally points at a workflow policy YAML file
	PolicyPath string `env:"TABLERO_POLICY_PATH"`
	// ClientBuffer is the per-connection send queue size
	ClientBuffer int `env:"TABLERO_DAEMON_CLIENT_BUFFER" envDefault:"10"`
	// BroadcastBuffer is the event fan-out queue size
	BroadcastBuffer int `env:"TABLERO_DAEMON_BROADCAST_BUFFER" envDefault:"100"`
}

// LoadConfig reads daemon configuration from the environment and fills in
// the default database path
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir := filepath.Join(home, ".tablero")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Config{}, fmt.Errorf("failed to create data directory: %w", err)
		}
		cfg.DBPath = filepath.Join(dir, "tablero.db")
	}

	return cfg, nil
}
