// Package clitest builds command contexts over throwaway storage for command
// tests.
package clitest

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/sixtysix/internal/cli"
	"github.com/julianstephens/sixtysix/internal/notify"
	"github.com/julianstephens/sixtysix/internal/prefs"
	"github.com/julianstephens/sixtysix/internal/reminders"
	"github.com/julianstephens/sixtysix/internal/review"
	"github.com/julianstephens/sixtysix/internal/storage/sqlite"
	"github.com/julianstephens/sixtysix/internal/utils"
)

type firstTemplate struct{}

func (firstTemplate) Intn(int) int { return 0 }

// Env is a command context plus the handles tests inspect.
type Env struct {
	*cli.Context
	Out       *bytes.Buffer
	Dir       string
	Now       time.Time
	Presented []int
}

// SetNow moves the fake clock.
func (e *Env) SetNow(t time.Time) {
	e.Now = t
}

// Output returns and clears everything printed so far.
func (e *Env) Output() string {
	s := e.Out.String()
	e.Out.Reset()
	return s
}

// New returns an initialized SQLite-backed context whose notifications go
// straight to the database. Review prompts skip the delay and are presented
// during the check-in that triggered them.
func New(t *testing.T) *Env {
	t.Helper()
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "sixtysix.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	p := prefs.Open(filepath.Join(dir, "prefs"))
	if err := p.SetNotificationsGranted(true); err != nil {
		t.Fatalf("failed to grant notifications: %v", err)
	}

	env := &Env{
		Out: &bytes.Buffer{},
		Dir: dir,
		Now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
	}
	clock := utils.ClockFunc(func() time.Time { return env.Now })
	notifications := notify.Permissioned{Store: store, Granted: p.NotificationsGranted}

	env.Context = cli.NewContext(store, p, cli.Options{
		Location:      time.UTC,
		Clock:         clock,
		Notifications: notifications,
		Pending:       store,
		Out:           env.Out,
		Presenter: review.PresenterFunc(func(_ context.Context, streak int) error {
			env.Presented = append(env.Presented, streak)
			return nil
		}),
		Reminders: []reminders.Option{reminders.WithRand(firstTemplate{})},
		Review: []review.Option{review.WithAfterFunc(func(_ time.Duration, f func()) {
			f()
		})},
	})
	return env
}
