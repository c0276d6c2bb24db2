package sqlstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/sixtysix/internal/models"
)

const habitColumns = `id, title, chapter, start_date, current_streak, last_check_in_date, prior_check_in_date,
	completed_dates, status, reminders, morning_motivation_enabled, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var startDate, createdAt, completed, reminders, status string
	var lastCheckIn, priorCheckIn sql.NullString

	err := row.Scan(&h.ID, &h.Title, &h.Chapter, &startDate, &h.CurrentStreak, &lastCheckIn, &priorCheckIn,
		&completed, &status, &reminders, &h.MorningMotivationEnabled, &createdAt)
	if err != nil {
		return models.Habit{}, err
	}
	h.Status = models.HabitStatus(status)

	if h.StartDate, err = parseTime("start_date", startDate); err != nil {
		return models.Habit{}, err
	}
	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.LastCheckInDate, err = parseNullTime("last_check_in_date", lastCheckIn); err != nil {
		return models.Habit{}, err
	}
	if h.PriorCheckInDate, err = parseNullTime("prior_check_in_date", priorCheckIn); err != nil {
		return models.Habit{}, err
	}

	h.CompletedDates = []time.Time{}
	if err := json.Unmarshal([]byte(completed), &h.CompletedDates); err != nil {
		return models.Habit{}, fmt.Errorf("failed to decode completed_dates for habit %s: %w", h.ID, err)
	}
	h.Reminders = []models.Reminder{}
	if err := json.Unmarshal([]byte(reminders), &h.Reminders); err != nil {
		return models.Habit{}, fmt.Errorf("failed to decode reminders for habit %s: %w", h.ID, err)
	}

	return h, nil
}

// habitArgs returns the column values of h in habitColumns order.
func habitArgs(h models.Habit) ([]any, error) {
	completed := h.CompletedDates
	if completed == nil {
		completed = []time.Time{}
	}
	completedJSON, err := json.Marshal(completed)
	if err != nil {
		return nil, fmt.Errorf("failed to encode completed_dates: %w", err)
	}
	reminders := h.Reminders
	if reminders == nil {
		reminders = []models.Reminder{}
	}
	remindersJSON, err := json.Marshal(reminders)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reminders: %w", err)
	}

	return []any{
		h.ID, h.Title, h.Chapter, formatTime(h.StartDate), h.CurrentStreak,
		formatNullTime(h.LastCheckInDate), formatNullTime(h.PriorCheckInDate),
		string(completedJSON), string(h.Status), string(remindersJSON),
		h.MorningMotivationEnabled, formatTime(h.CreatedAt),
	}, nil
}

func (s *Store) AddHabit(h models.Habit) error {
	args, err := habitArgs(h)
	if err != nil {
		return err
	}
	_, err = s.exec(`INSERT INTO habits (`+habitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}
	return nil
}

func (s *Store) UpdateHabit(h models.Habit) error {
	args, err := habitArgs(h)
	if err != nil {
		return err
	}
	// id moves from the front to the WHERE clause
	args = append(args[1:], h.ID)

	res, err := s.exec(`
		UPDATE habits SET title = ?, chapter = ?, start_date = ?, current_streak = ?, last_check_in_date = ?,
			prior_check_in_date = ?, completed_dates = ?, status = ?, reminders = ?,
			morning_motivation_enabled = ?, created_at = ?
		WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("habit %s: %w", h.ID, ErrNotFound)
	}
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	h, err := scanHabit(s.queryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}
	return h, err
}

func (s *Store) GetHabitByTitle(title string) (models.Habit, error) {
	h, err := scanHabit(s.queryRow(`SELECT `+habitColumns+` FROM habits WHERE title = ? ORDER BY created_at LIMIT 1`, title))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", title, ErrNotFound)
	}
	return h, err
}

// GetAllHabits returns habits in creation order.
func (s *Store) GetAllHabits() ([]models.Habit, error) {
	rows, err := s.query(`SELECT ` + habitColumns + ` FROM habits ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) DeleteHabit(id string) error {
	res, err := s.exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}
	return nil
}
