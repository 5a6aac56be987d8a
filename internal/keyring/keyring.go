package keyring

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/cadence/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Origin says where a connection string came from.
type Origin string

const (
	OriginEnv     Origin = "environment"
	OriginKeyring Origin = "keyring"
	OriginConfig  Origin = "config"
)

func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func DeleteConnectionString() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable reports whether the OS keyring answers a read.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// ResolveConnectionString picks the PostgreSQL connection string to use.
// The environment variable wins, then the keyring, then fallback (which must
// rely on .pgpass or peer auth). An empty fallback with nothing stored is an
// error.
func ResolveConnectionString(fallback string) (string, Origin, error) {
	if env := os.Getenv(constants.ConnectionEnvVar); env != "" {
		return env, OriginEnv, nil
	}

	connStr, err := GetConnectionString()
	switch {
	case err == nil:
		return connStr, OriginKeyring, nil
	case fallback != "":
		return fallback, OriginConfig, nil
	default:
		return "", "", fmt.Errorf("no connection string in %s or keyring: %w", constants.ConnectionEnvVar, err)
	}
}
