package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/sixtysix/internal/keyring"
	"github.com/julianstephens/sixtysix/internal/logger"
	"github.com/julianstephens/sixtysix/internal/storage/postgres"
	"github.com/julianstephens/sixtysix/internal/storage/sqlite"
)

// Credentials supplies the full Postgres connection string when the
// configured one carries no password.
type Credentials struct {
	Env     string
	Keyring func() (string, error)
}

// NewProvider picks a backend from config: a postgres:// URL, a .json file,
// or otherwise a SQLite database path.
func NewProvider(config string, creds Credentials) (Provider, error) {
	switch {
	case postgres.IsConnString(config):
		if err := postgres.ValidateConnString(config); err != nil {
			return nil, err
		}
		connStr, err := resolveConnString(config, creds)
		if err != nil {
			return nil, err
		}
		return postgres.New(connStr), nil
	case strings.HasSuffix(strings.ToLower(config), ".json"):
		return NewJSONStore(config), nil
	default:
		return sqlite.NewStore(config), nil
	}
}

// resolveConnString prefers the environment, then the OS keyring, and
// finally the configured string (relying on .pgpass).
func resolveConnString(config string, creds Credentials) (string, error) {
	if creds.Env != "" {
		return creds.Env, nil
	}
	if creds.Keyring != nil {
		connStr, err := creds.Keyring()
		switch {
		case err == nil:
			return connStr, nil
		case errors.Is(err, keyring.ErrNotFound):
		case errors.Is(err, keyring.ErrKeyringUnavailable):
			logger.Debug("OS keyring unavailable, falling back to configured connection string", "error", err)
		default:
			return "", fmt.Errorf("failed to read connection string: %w", err)
		}
	}
	return config, nil
}
