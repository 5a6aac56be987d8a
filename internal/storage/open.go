package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/cadence/internal/keyring"
	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/storage/postgres"
	"github.com/julianstephens/cadence/internal/storage/sqlite"
)

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

// KeyringConfig selects PostgreSQL with the connection string taken entirely
// from the environment or the OS keyring.
const KeyringConfig = "keyring"

// IsPostgres reports whether config names a PostgreSQL database.
func IsPostgres(config string) bool {
	return config == KeyringConfig ||
		strings.HasPrefix(config, "postgres://") ||
		strings.HasPrefix(config, "postgresql://")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Open returns the provider for config without connecting. A PostgreSQL URL
// given on the command line must not embed a password.
func Open(config string) (Provider, error) {
	if !IsPostgres(config) {
		path, err := ExpandHome(config)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(path), nil
	}

	fallback := ""
	if config != KeyringConfig {
		if err := postgres.ValidateConnString(config); err != nil {
			return nil, err
		}
		fallback = config
	}

	connStr, origin, err := keyring.ResolveConnectionString(fallback)
	if err != nil {
		return nil, err
	}
	logger.Debug("Using PostgreSQL connection string", "origin", origin)
	return postgres.New(connStr), nil
}
