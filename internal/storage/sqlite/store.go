// Package sqlite is the default local backend: habits and pending
// notifications in a single SQLite file.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/sixtysix/internal/migration"
	"github.com/julianstephens/sixtysix/internal/storage/sqlstore"
	"github.com/julianstephens/sixtysix/migrations"
)

type Store struct {
	sqlstore.Store
	path string
}

func NewStore(path string) *Store {
	return &Store{
		Store: sqlstore.Store{Dialect: migration.SQLite},
		path:  path,
	}
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// modernc connections do not share an in-process lock
	db.SetMaxOpenConns(1)
	s.DB = db
	return nil
}

// Init creates the database file if needed and applies pending migrations.
func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if s.DB == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	runner := migration.NewRunner(s.DB, migrations.SQLite(), migration.SQLite)
	if _, err := runner.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Load opens an initialized database and checks its schema version.
func (s *Store) Load() error {
	if s.DB != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'sixtysix init' first")
	}
	if err := s.open(); err != nil {
		return err
	}

	runner := migration.NewRunner(s.DB, migrations.SQLite(), migration.SQLite)
	if err := runner.ValidateVersion(); err != nil {
		return err
	}
	// Pick up migrations shipped since the database was created.
	if _, err := runner.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	err := s.DB.Close()
	s.DB = nil
	return err
}

func (s *Store) GetConfigPath() string {
	return s.path
}
