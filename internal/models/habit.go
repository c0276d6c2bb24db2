package models

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/julianstephens/sixtysix/internal/constants"
)

type HabitStatus string

const (
	HabitStatusActive HabitStatus = "active"
	// HabitStatusBroken is reserved for a chapter whose last check-in predates
	// yesterday. Validation rolls such a habit straight into a reset, so it is
	// never persisted in practice.
	HabitStatusBroken    HabitStatus = "broken"
	HabitStatusCompleted HabitStatus = "completed"
)

// Reminder is one time-of-day reminder fragment attached to a habit.
type Reminder struct {
	ID      string `json:"id" validate:"required"`
	Hour    int    `json:"hour" validate:"gte=0,lte=23"`
	Minute  int    `json:"minute" validate:"gte=0,lte=59"`
	Enabled bool   `json:"enabled"`
}

// NewReminder creates an enabled reminder fragment at hour:minute.
func NewReminder(hour, minute int) Reminder {
	return Reminder{
		ID:      uuid.New().String(),
		Hour:    hour,
		Minute:  minute,
		Enabled: true,
	}
}

// TimeOfDay returns the reminder time as HH:MM.
func (r Reminder) TimeOfDay() string {
	return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute)
}

// Habit is one tracked behavior working toward a 66-day streak.
type Habit struct {
	ID                       string      `json:"id" validate:"required"`
	Title                    string      `json:"title" validate:"required,notblank"`
	Chapter                  int         `json:"chapter" validate:"gte=1"`
	StartDate                time.Time   `json:"start_date"`
	CurrentStreak            int         `json:"current_streak" validate:"gte=0,lte=66"`
	LastCheckInDate          *time.Time  `json:"last_check_in_date,omitempty"`
	PriorCheckInDate         *time.Time  `json:"prior_check_in_date,omitempty"` // last_check_in_date before today's check-in
	CompletedDates           []time.Time `json:"completed_dates"`
	Status                   HabitStatus `json:"status" validate:"oneof=active broken completed"`
	Reminders                []Reminder  `json:"reminders" validate:"dive"`
	MorningMotivationEnabled bool        `json:"morning_motivation_enabled"`
	CreatedAt                time.Time   `json:"created_at"`
}

// ProgressFraction is the share of the goal reached, capped at 1.
func (h Habit) ProgressFraction() float64 {
	return min(float64(h.CurrentStreak)/float64(constants.GoalDays), 1.0)
}

// ProgressPercentage is the truncated integer percentage of the goal reached.
func (h Habit) ProgressPercentage() int {
	if h.CurrentStreak <= 0 {
		return 0
	}
	return int(float64(h.CurrentStreak) / float64(constants.GoalDays) * 100)
}

func (h Habit) IsFullyCompleted() bool {
	return h.CurrentStreak >= constants.GoalDays
}

// EnabledReminders returns the fragments that should produce notifications.
func (h Habit) EnabledReminders() []Reminder {
	var enabled []Reminder
	for _, r := range h.Reminders {
		if r.Enabled {
			enabled = append(enabled, r)
		}
	}
	return enabled
}

// Clone returns a deep copy so callers can mutate without aliasing slices.
func (h Habit) Clone() Habit {
	c := h
	if h.LastCheckInDate != nil {
		t := *h.LastCheckInDate
		c.LastCheckInDate = &t
	}
	if h.PriorCheckInDate != nil {
		t := *h.PriorCheckInDate
		c.PriorCheckInDate = &t
	}
	c.CompletedDates = slices.Clone(h.CompletedDates)
	c.Reminders = slices.Clone(h.Reminders)
	return c
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// Validate checks the habit's structural invariants.
func (h Habit) Validate() error {
	if err := getValidator().Struct(h); err != nil {
		return fmt.Errorf("invalid habit: %w", err)
	}
	if len(h.CompletedDates) != h.CurrentStreak {
		return fmt.Errorf("invalid habit: %d completed dates for a streak of %d", len(h.CompletedDates), h.CurrentStreak)
	}
	return nil
}

// ValidateReminder checks a single reminder fragment.
func ValidateReminder(r Reminder) error {
	if err := getValidator().Struct(r); err != nil {
		return fmt.Errorf("invalid reminder: %w", err)
	}
	return nil
}
