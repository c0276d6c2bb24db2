// Package reminders derives the notification intents a habit collection
// should have and reconciles them against a notification store.
//
// Every operation cancels the identifiers it owns before adding the fresh
// intents, so repeated calls converge on the same pending set. Store failures
// are logged and never returned; a denied permission simply leaves the store
// empty.
package reminders

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/julianstephens/sixtysix/internal/constants"
	"github.com/julianstephens/sixtysix/internal/logger"
	"github.com/julianstephens/sixtysix/internal/models"
	"github.com/julianstephens/sixtysix/internal/notify"
	"github.com/julianstephens/sixtysix/internal/streak"
	"github.com/julianstephens/sixtysix/internal/utils"
)

// Rand picks template indexes. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

type Scheduler struct {
	store  notify.Store
	engine *streak.Engine
	clock  utils.Clock

	mu  sync.Mutex
	rnd Rand
}

type Option func(*Scheduler)

func WithRand(r Rand) Option {
	return func(s *Scheduler) { s.rnd = r }
}

func WithClock(c utils.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

func New(store notify.Store, engine *streak.Engine, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:  store,
		engine: engine,
		clock:  utils.SystemClock{Location: engine.Calendar().Location()},
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) pick(pool []string, fallback string) string {
	if len(pool) == 0 {
		return fallback
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return pool[s.rnd.Intn(len(pool))]
}

// ReminderIntents builds one daily intent per enabled reminder fragment.
func (s *Scheduler) ReminderIntents(h models.Habit) []notify.Request {
	day := h.CurrentStreak + 1
	var reqs []notify.Request
	for _, r := range h.EnabledReminders() {
		reqs = append(reqs, notify.Request{
			Identifier: ReminderID(h.ID, r.ID),
			Title:      h.Title,
			Body:       fill(s.pick(reminderMessages, fallbackReminder), day),
			Trigger:    notify.DailyAt(r.Hour, r.Minute),
		})
	}
	return reqs
}

// MotivationIntent builds the 08:00 motivation intent. ok is false when the
// habit has morning motivation turned off.
func (s *Scheduler) MotivationIntent(h models.Habit) (req notify.Request, ok bool) {
	if !h.MorningMotivationEnabled {
		return notify.Request{}, false
	}
	return notify.Request{
		Identifier: MotivationID(h.ID),
		Title:      h.Title,
		Body:       s.pick(motivationMessages, fallbackMotivation),
		Trigger:    notify.DailyAt(constants.MorningMotivationHour, constants.MorningMotivationMinute),
	}, true
}

// AtRisk returns the active habits not yet checked in on now's day.
func (s *Scheduler) AtRisk(habits []models.Habit, now time.Time) []models.Habit {
	var out []models.Habit
	for _, h := range habits {
		if h.Status == models.HabitStatusActive && !s.engine.IsCompletedToday(h, now) {
			out = append(out, h)
		}
	}
	return out
}

// ConsolidatedIntent builds the single 21:00 summary over the at-risk habits.
// ok is false when no habit is at risk and the summary should not exist.
func (s *Scheduler) ConsolidatedIntent(habits []models.Habit, now time.Time) (req notify.Request, ok bool) {
	atRisk := s.AtRisk(habits, now)

	var body string
	switch len(atRisk) {
	case 0:
		return notify.Request{}, false
	case 1:
		body = singleHabitBody(atRisk[0].Title, atRisk[0].CurrentStreak+1)
	default:
		body = fill(s.pick(consolidatedMessages, fallbackConsolidated), len(atRisk))
	}

	return notify.Request{
		Identifier: constants.EmergencySummaryID,
		Title:      emergencyTitle,
		Body:       body,
		Trigger:    notify.DailyAt(constants.EmergencyReminderHour, constants.EmergencyReminderMinute),
	}, true
}

// Plan returns the full intent set the store should hold for habits, without
// touching the store or validating streaks.
func (s *Scheduler) Plan(habits []models.Habit) []notify.Request {
	var reqs []notify.Request
	for _, h := range habits {
		if h.Status != models.HabitStatusActive {
			continue
		}
		reqs = append(reqs, s.ReminderIntents(h)...)
		if req, ok := s.MotivationIntent(h); ok {
			reqs = append(reqs, req)
		}
	}
	if req, ok := s.ConsolidatedIntent(habits, s.clock.Now()); ok {
		reqs = append(reqs, req)
	}
	notify.SortRequests(reqs)
	return reqs
}

func (s *Scheduler) cancel(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	if err := s.store.Cancel(ctx, ids); err != nil {
		logger.Warn("Failed to cancel notifications", "identifiers", ids, "error", err)
	}
}

func (s *Scheduler) add(ctx context.Context, req notify.Request) {
	err := s.store.Add(ctx, req)
	switch {
	case err == nil:
	case errors.Is(err, notify.ErrPermissionDenied):
		logger.Debug("Notification not scheduled", "identifier", req.Identifier, "reason", err)
	default:
		logger.Warn("Failed to schedule notification", "identifier", req.Identifier, "error", err)
	}
}

// ScheduleReminder replaces every reminder-fragment intent of h. Fragments
// that are disabled or were removed from the habit lose their intent, and the
// legacy single-reminder identifier is always cancelled.
func (s *Scheduler) ScheduleReminder(ctx context.Context, h models.Habit) {
	ids := append([]string{LegacyReminderID(h.ID)}, fragmentIDs(h)...)
	s.cancel(ctx, ids)

	for _, req := range s.ReminderIntents(h) {
		s.add(ctx, req)
	}
}

// ScheduleMorningMotivation replaces the motivation intent of h, or removes
// it when morning motivation is off.
func (s *Scheduler) ScheduleMorningMotivation(ctx context.Context, h models.Habit) {
	s.cancel(ctx, []string{MotivationID(h.ID)})

	if req, ok := s.MotivationIntent(h); ok {
		s.add(ctx, req)
	}
}

// ScheduleConsolidatedEmergencyReminder recomputes the daily summary over the
// whole collection. An empty at-risk set cancels it.
func (s *Scheduler) ScheduleConsolidatedEmergencyReminder(ctx context.Context, habits []models.Habit) {
	s.cancel(ctx, []string{constants.EmergencySummaryID})

	req, ok := s.ConsolidatedIntent(habits, s.clock.Now())
	if !ok {
		logger.Debug("No habits at risk, emergency summary cancelled")
		return
	}
	s.add(ctx, req)
}

// CancelNotifications removes every identifier derivable from h.
func (s *Scheduler) CancelNotifications(ctx context.Context, h models.Habit) {
	s.cancel(ctx, HabitIdentifiers(h))
}

// RescheduleAll is the launch and foreground entry point. It validates every
// streak in place, reconciles per-habit intents, then the consolidated
// summary. The returned habits are copies of those whose streak was reset and
// need persisting.
func (s *Scheduler) RescheduleAll(ctx context.Context, habits []models.Habit) []models.Habit {
	now := s.clock.Now()

	var reset []models.Habit
	for i := range habits {
		if s.engine.ValidateStreak(&habits[i], now) {
			reset = append(reset, habits[i].Clone())
		}
	}

	for _, h := range habits {
		if h.Status != models.HabitStatusActive {
			s.CancelNotifications(ctx, h)
			continue
		}
		s.ScheduleReminder(ctx, h)
		s.ScheduleMorningMotivation(ctx, h)
	}

	s.ScheduleConsolidatedEmergencyReminder(ctx, habits)

	logger.Debug("Notifications rescheduled", "habits", len(habits), "reset", len(reset))
	return reset
}
