// Package tracker applies habit mutations end to end: the streak engine
// changes the habit, the store persists it, and the reminder scheduler and
// review gate react to the result.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/sixtysix/internal/logger"
	"github.com/julianstephens/sixtysix/internal/models"
	"github.com/julianstephens/sixtysix/internal/reminders"
	"github.com/julianstephens/sixtysix/internal/storage"
	"github.com/julianstephens/sixtysix/internal/streak"
	"github.com/julianstephens/sixtysix/internal/utils"
)

// HabitStore is the slice of storage.Provider the tracker needs.
type HabitStore interface {
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByTitle(title string) (models.Habit, error)
	GetAllHabits() ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	DeleteHabit(id string) error
}

// ReviewGate receives successful check-ins.
type ReviewGate interface {
	RequestIfAppropriate(ctx context.Context, streak int) bool
}

// HabitInput carries the user-editable fields of a habit.
type HabitInput struct {
	Title             string
	Reminders         []models.Reminder
	MorningMotivation bool
}

// CheckInResult describes the outcome of a check-in.
type CheckInResult struct {
	Habit           models.Habit
	Event           streak.Event
	CheckedIn       bool
	ReviewRequested bool
}

type Service struct {
	store     HabitStore
	engine    *streak.Engine
	scheduler *reminders.Scheduler
	gate      ReviewGate
	clock     utils.Clock
}

func New(store HabitStore, engine *streak.Engine, scheduler *reminders.Scheduler, gate ReviewGate, clock utils.Clock) *Service {
	return &Service{
		store:     store,
		engine:    engine,
		scheduler: scheduler,
		gate:      gate,
		clock:     clock,
	}
}

func (s *Service) Engine() *streak.Engine {
	return s.engine
}

func (s *Service) Scheduler() *reminders.Scheduler {
	return s.scheduler
}

func (s *Service) Clock() utils.Clock {
	return s.clock
}

// Habits returns the collection in creation order.
func (s *Service) Habits() ([]models.Habit, error) {
	return s.store.GetAllHabits()
}

// Habit looks a habit up by id, then by exact title.
func (s *Service) Habit(ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	h, err := s.store.GetHabit(ref)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, err
	}
	return s.store.GetHabitByTitle(ref)
}

// Foreground is the launch and foreground entry point: it validates every
// streak, reconciles all notification intents and persists the habits whose
// streak was reset. It returns the up to date collection.
func (s *Service) Foreground(ctx context.Context) ([]models.Habit, error) {
	habits, err := s.store.GetAllHabits()
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}

	reset := s.scheduler.RescheduleAll(ctx, habits)
	for _, h := range reset {
		if err := s.store.UpdateHabit(h); err != nil {
			return nil, fmt.Errorf("failed to save reset habit %q: %w", h.Title, err)
		}
	}
	if len(reset) > 0 {
		logger.Info("Broken streaks reset", "count", len(reset))
	}
	return habits, nil
}

func (s *Service) CreateHabit(ctx context.Context, in HabitInput) (models.Habit, error) {
	h := s.engine.NewHabit(strings.TrimSpace(in.Title), s.clock.Now())
	applyInput(&h, in)
	if err := h.Validate(); err != nil {
		return models.Habit{}, err
	}

	if _, err := s.store.GetHabitByTitle(h.Title); err == nil {
		return models.Habit{}, fmt.Errorf("a habit named %q already exists", h.Title)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, err
	}

	if err := s.store.AddHabit(h); err != nil {
		return models.Habit{}, fmt.Errorf("failed to save habit: %w", err)
	}
	logger.Info("Habit created", "habit", h.ID, "title", h.Title)

	s.resync(ctx, h)
	return h, nil
}

// UpdateHabit replaces the editable fields of a habit. Every intent of the old
// version is cancelled before the new version is scheduled, so fragments that
// were removed lose their notifications.
func (s *Service) UpdateHabit(ctx context.Context, id string, in HabitInput) (models.Habit, error) {
	old, err := s.store.GetHabit(id)
	if err != nil {
		return models.Habit{}, err
	}

	h := old.Clone()
	h.Title = strings.TrimSpace(in.Title)
	applyInput(&h, in)
	if err := h.Validate(); err != nil {
		return models.Habit{}, err
	}
	if other, err := s.store.GetHabitByTitle(h.Title); err == nil && other.ID != h.ID {
		return models.Habit{}, fmt.Errorf("a habit named %q already exists", h.Title)
	}

	if err := s.store.UpdateHabit(h); err != nil {
		return models.Habit{}, fmt.Errorf("failed to save habit: %w", err)
	}

	s.scheduler.CancelNotifications(ctx, old)
	s.resync(ctx, h)
	return h, nil
}

func applyInput(h *models.Habit, in HabitInput) {
	h.Reminders = []models.Reminder{}
	for _, r := range in.Reminders {
		if r.ID == "" {
			r.ID = models.NewReminder(r.Hour, r.Minute).ID
		}
		h.Reminders = append(h.Reminders, r)
	}
	h.MorningMotivationEnabled = in.MorningMotivation
}

// CheckIn records today's check-in for the habit. A repeated check-in on the
// same day changes nothing and is not an error.
func (s *Service) CheckIn(ctx context.Context, id string) (CheckInResult, error) {
	h, err := s.store.GetHabit(id)
	if err != nil {
		return CheckInResult{}, err
	}

	ev, ok := s.engine.CheckIn(&h, s.clock.Now())
	if !ok {
		return CheckInResult{Habit: h}, nil
	}
	if err := s.store.UpdateHabit(h); err != nil {
		return CheckInResult{}, fmt.Errorf("failed to save check-in: %w", err)
	}

	s.resync(ctx, h)

	res := CheckInResult{Habit: h, Event: ev, CheckedIn: true}
	if s.gate != nil {
		res.ReviewRequested = s.gate.RequestIfAppropriate(ctx, ev.Streak)
	}
	return res, nil
}

// UndoCheckIn reverts today's check-in; ok is false when there was none.
func (s *Service) UndoCheckIn(ctx context.Context, id string) (h models.Habit, ok bool, err error) {
	return s.mutate(ctx, id, func(h *models.Habit) bool {
		return s.engine.UndoCheckIn(h, s.clock.Now())
	})
}

// ResetStreak abandons the current chapter and starts a new one today.
func (s *Service) ResetStreak(ctx context.Context, id string) (models.Habit, error) {
	h, _, err := s.mutate(ctx, id, func(h *models.Habit) bool {
		s.engine.ResetStreak(h, s.clock.Now())
		return true
	})
	return h, err
}

func (s *Service) mutate(ctx context.Context, id string, apply func(*models.Habit) bool) (models.Habit, bool, error) {
	h, err := s.store.GetHabit(id)
	if err != nil {
		return models.Habit{}, false, err
	}
	if !apply(&h) {
		return h, false, nil
	}
	if err := s.store.UpdateHabit(h); err != nil {
		return models.Habit{}, false, fmt.Errorf("failed to save habit: %w", err)
	}
	s.resync(ctx, h)
	return h, true, nil
}

func (s *Service) DeleteHabit(ctx context.Context, id string) error {
	h, err := s.store.GetHabit(id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteHabit(h.ID); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	logger.Info("Habit deleted", "habit", h.ID)

	s.scheduler.CancelNotifications(ctx, h)
	s.resyncSummary(ctx)
	return nil
}

// DeleteAllHabits removes every habit and its notifications. It returns the
// number of habits deleted.
func (s *Service) DeleteAllHabits(ctx context.Context) (int, error) {
	habits, err := s.store.GetAllHabits()
	if err != nil {
		return 0, fmt.Errorf("failed to load habits: %w", err)
	}
	for i, h := range habits {
		if err := s.store.DeleteHabit(h.ID); err != nil {
			return i, fmt.Errorf("failed to delete habit %q: %w", h.Title, err)
		}
		s.scheduler.CancelNotifications(ctx, h)
	}
	s.resyncSummary(ctx)
	return len(habits), nil
}

// resync reconciles the per-habit intents of h and the consolidated summary.
func (s *Service) resync(ctx context.Context, h models.Habit) {
	if h.Status == models.HabitStatusActive {
		s.scheduler.ScheduleReminder(ctx, h)
		s.scheduler.ScheduleMorningMotivation(ctx, h)
	} else {
		s.scheduler.CancelNotifications(ctx, h)
	}
	s.resyncSummary(ctx)
}

func (s *Service) resyncSummary(ctx context.Context) {
	habits, err := s.store.GetAllHabits()
	if err != nil {
		logger.Warn("Failed to load habits for emergency summary", "error", err)
		return
	}
	s.scheduler.ScheduleConsolidatedEmergencyReminder(ctx, habits)
}
