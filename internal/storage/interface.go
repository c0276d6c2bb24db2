// Package storage defines the habit collection store and selects a backend
// from the configured location.
package storage

import (
	"github.com/julianstephens/sixtysix/internal/models"
	"github.com/julianstephens/sixtysix/internal/notify"
	"github.com/julianstephens/sixtysix/internal/storage/sqlstore"
)

// ErrNotFound is returned when a habit does not exist.
var ErrNotFound = sqlstore.ErrNotFound

// Provider persists habits and the local pending notification set.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByTitle(title string) (models.Habit, error)
	GetAllHabits() ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	DeleteHabit(id string) error

	// Pending notifications
	notify.Store
	notify.Lister

	// Utils
	GetConfigPath() string
}
