// Package streak implements the per-habit streak state machine: check-in, undo,
// day-boundary validation and reset. It performs no I/O; callers persist the
// mutated habit and fan the resulting events out to reminder and review logic.
package streak

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/sixtysix/internal/constants"
	"github.com/julianstephens/sixtysix/internal/logger"
	"github.com/julianstephens/sixtysix/internal/models"
	"github.com/julianstephens/sixtysix/internal/utils"
)

// Event reports that a check-in advanced a habit's streak.
type Event struct {
	HabitID   string
	Title     string
	Streak    int
	Completed bool
	At        time.Time
}

// Engine applies streak transitions against an injected calendar.
type Engine struct {
	cal utils.Calendar
}

func NewEngine(cal utils.Calendar) *Engine {
	return &Engine{cal: cal}
}

// Calendar returns the calendar the engine evaluates days against.
func (e *Engine) Calendar() utils.Calendar {
	return e.cal
}

// NewHabit creates a habit in its initial state: chapter 1, active, no streak.
func (e *Engine) NewHabit(title string, now time.Time) models.Habit {
	return models.Habit{
		ID:             uuid.New().String(),
		Title:          title,
		Chapter:        1,
		StartDate:      e.cal.StartOfDay(now),
		CurrentStreak:  0,
		CompletedDates: []time.Time{},
		Status:         models.HabitStatusActive,
		Reminders:      []models.Reminder{},
		CreatedAt:      now,
	}
}

// IsCompletedToday reports whether the habit's last check-in falls on now's day.
func (e *Engine) IsCompletedToday(h models.Habit, now time.Time) bool {
	if h.LastCheckInDate == nil || h.LastCheckInDate.IsZero() {
		return false
	}
	return e.cal.IsToday(*h.LastCheckInDate, now)
}

func (e *Engine) ProgressFraction(h models.Habit) float64 {
	return h.ProgressFraction()
}

func (e *Engine) IsFullyCompleted(h models.Habit) bool {
	return h.IsFullyCompleted()
}

// DaysRemaining is the number of check-ins left before the goal.
func (e *Engine) DaysRemaining(h models.Habit) int {
	return max(constants.GoalDays-h.CurrentStreak, 0)
}

// CheckIn records today's check-in. It is a no-op when the habit was already
// checked in today or has finished its chapter; ok reports whether the streak
// advanced.
func (e *Engine) CheckIn(h *models.Habit, now time.Time) (ev Event, ok bool) {
	if e.IsCompletedToday(*h, now) {
		return Event{}, false
	}
	// Completed stays terminal until ResetStreak.
	if h.Status == models.HabitStatusCompleted || e.IsFullyCompleted(*h) {
		return Event{}, false
	}

	h.PriorCheckInDate = h.LastCheckInDate
	checkedIn := now
	h.LastCheckInDate = &checkedIn
	h.CurrentStreak++
	h.CompletedDates = append(h.CompletedDates, e.cal.StartOfDay(now))

	if h.CurrentStreak >= constants.GoalDays {
		h.Status = models.HabitStatusCompleted
	}

	logger.Debug("Habit checked in", "habit", h.ID, "streak", h.CurrentStreak, "status", h.Status)

	return Event{
		HabitID:   h.ID,
		Title:     h.Title,
		Streak:    h.CurrentStreak,
		Completed: h.Status == models.HabitStatusCompleted,
		At:        now,
	}, true
}

// UndoCheckIn reverts today's check-in. It is a no-op unless the habit was
// checked in today.
func (e *Engine) UndoCheckIn(h *models.Habit, now time.Time) bool {
	if !e.IsCompletedToday(*h, now) {
		return false
	}

	h.CurrentStreak = max(h.CurrentStreak-1, 0)
	h.CompletedDates = slices.DeleteFunc(h.CompletedDates, func(d time.Time) bool {
		return e.cal.IsSameDay(d, now)
	})

	switch {
	case len(h.CompletedDates) == 0:
		h.LastCheckInDate = nil
	case h.PriorCheckInDate != nil && e.cal.IsSameDay(*h.PriorCheckInDate, h.CompletedDates[len(h.CompletedDates)-1]):
		prior := *h.PriorCheckInDate
		h.LastCheckInDate = &prior
	default:
		last := h.CompletedDates[len(h.CompletedDates)-1]
		h.LastCheckInDate = &last
	}
	h.PriorCheckInDate = nil

	if h.Status == models.HabitStatusCompleted {
		h.Status = models.HabitStatusActive
	}

	logger.Debug("Habit check-in undone", "habit", h.ID, "streak", h.CurrentStreak)
	return true
}

// ValidateStreak resets an active habit whose last check-in is earlier than
// yesterday. It only runs on launch and foreground, so a streak that should
// have broken stays displayed until the next validation. Returns true when the
// habit was reset.
func (e *Engine) ValidateStreak(h *models.Habit, now time.Time) bool {
	if h.Status != models.HabitStatusActive {
		return false
	}
	if h.LastCheckInDate == nil || h.LastCheckInDate.IsZero() {
		return false
	}

	gap := e.cal.DaysBetween(*h.LastCheckInDate, now)
	if gap < 2 {
		return false
	}

	logger.Info("Streak broken", "habit", h.ID, "streak", h.CurrentStreak, "days_since_check_in", gap)
	h.Status = models.HabitStatusBroken
	e.ResetStreak(h, now)
	return true
}

// ResetStreak abandons the current chapter and starts the next one today.
func (e *Engine) ResetStreak(h *models.Habit, now time.Time) {
	h.Chapter++
	h.CurrentStreak = 0
	h.CompletedDates = []time.Time{}
	h.StartDate = e.cal.StartOfDay(now)
	h.LastCheckInDate = nil
	h.PriorCheckInDate = nil
	h.Status = models.HabitStatusActive
}
