// Package review decides when to ask the user for an app review. A prompt is
// only considered on a successful check-in that lands on a milestone streak,
// and is rate limited per session, per 30 days and per 365-day epoch.
package review

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/sixtysix/internal/constants"
	"github.com/julianstephens/sixtysix/internal/logger"
	"github.com/julianstephens/sixtysix/internal/models"
	"github.com/julianstephens/sixtysix/internal/utils"
)

var milestones = map[int]bool{7: true, 21: true, constants.GoalDays: true}

// IsMilestone reports whether streak is one of the review milestones.
func IsMilestone(streak int) bool {
	return milestones[streak]
}

// Counters persists the review state across sessions.
type Counters interface {
	Load() (models.ReviewState, error)
	Save(models.ReviewState) error
	Clear() error
}

// Presenter shows the review request to the user.
type Presenter interface {
	PresentReview(ctx context.Context, streak int) error
}

type PresenterFunc func(ctx context.Context, streak int) error

func (f PresenterFunc) PresentReview(ctx context.Context, streak int) error { return f(ctx, streak) }

// Status is a snapshot of the gate for display.
type Status struct {
	models.ReviewState
	SessionPrompted bool
}

type Gate struct {
	counters  Counters
	clock     utils.Clock
	cal       utils.Calendar
	delay     time.Duration
	afterFunc func(time.Duration, func())

	mu              sync.Mutex
	presenter       Presenter
	sessionPrompted bool
	pending         sync.WaitGroup
}

type Option func(*Gate)

func WithDelay(d time.Duration) Option {
	return func(g *Gate) { g.delay = d }
}

// WithAfterFunc replaces the timer used to delay presentation.
func WithAfterFunc(f func(time.Duration, func())) Option {
	return func(g *Gate) { g.afterFunc = f }
}

func WithPresenter(p Presenter) Option {
	return func(g *Gate) { g.presenter = p }
}

// NewGate returns a gate for a new session.
func NewGate(counters Counters, clock utils.Clock, cal utils.Calendar, opts ...Option) *Gate {
	g := &Gate{
		counters: counters,
		clock:    clock,
		cal:      cal,
		delay:    constants.ReviewPromptDelay,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) SetPresenter(p Presenter) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.presenter = p
}

// RequestIfAppropriate is called after every successful check-in with the
// resulting streak. It reports whether a prompt was scheduled.
func (g *Gate) RequestIfAppropriate(ctx context.Context, streak int) bool {
	if !IsMilestone(streak) || !g.claim(streak) {
		return false
	}

	// The timer runs unlocked: present takes g.mu itself.
	ctx = context.WithoutCancel(ctx)
	g.afterFunc(g.delay, func() {
		defer g.pending.Done()
		g.present(ctx, streak)
	})

	logger.Debug("Review prompt scheduled", "streak", streak, "delay", g.delay)
	return true
}

// claim applies the session, epoch, cap and cooldown checks and marks the
// session as prompted when they all pass.
func (g *Gate) claim(streak int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sessionPrompted {
		logger.Debug("Review prompt skipped", "reason", "already prompted this session", "streak", streak)
		return false
	}

	st, err := g.counters.Load()
	if err != nil {
		logger.Warn("Failed to load review counters", "error", err)
		return false
	}
	now := g.clock.Now()

	if st.EpochStart != nil && g.cal.DaysElapsed(*st.EpochStart, now) >= constants.ReviewEpochDays {
		st.PromptCount = 0
		st.EpochStart = nil
		if err := g.counters.Save(st); err != nil {
			logger.Warn("Failed to roll over review epoch", "error", err)
		}
	}

	if st.PromptCount >= constants.ReviewMaxPromptsPerYear {
		logger.Debug("Review prompt skipped", "reason", "yearly cap reached", "count", st.PromptCount)
		return false
	}
	if st.LastPromptDate != nil && g.cal.DaysElapsed(*st.LastPromptDate, now) < constants.ReviewCooldownDays {
		logger.Debug("Review prompt skipped", "reason", "cooldown", "last", st.LastPromptDate)
		return false
	}

	// Set before the delay so a second milestone in this session is refused
	// even if the first prompt has not been shown yet.
	g.sessionPrompted = true
	g.pending.Add(1)
	return true
}

func (g *Gate) present(ctx context.Context, streak int) {
	g.mu.Lock()
	presenter := g.presenter
	g.mu.Unlock()

	if presenter != nil {
		if err := presenter.PresentReview(ctx, streak); err != nil {
			logger.Warn("Failed to present review prompt", "error", err)
			return
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	st, err := g.counters.Load()
	if err != nil {
		logger.Warn("Failed to load review counters", "error", err)
		return
	}
	now := g.clock.Now()
	if st.EpochStart == nil {
		st.EpochStart = &now
	}
	st.PromptCount++
	st.LastPromptDate = &now

	if err := g.counters.Save(st); err != nil {
		logger.Warn("Failed to save review counters", "error", err)
		return
	}
	logger.Info("Review prompt presented", "streak", streak, "count", st.PromptCount)
}

// Wait blocks until every scheduled presentation has run.
func (g *Gate) Wait() {
	g.pending.Wait()
}

// Reset clears the persisted counters and the session flag.
func (g *Gate) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessionPrompted = false
	return g.counters.Clear()
}

func (g *Gate) Status() (Status, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	st, err := g.counters.Load()
	if err != nil {
		return Status{}, err
	}
	return Status{ReviewState: st, SessionPrompted: g.sessionPrompted}, nil
}
