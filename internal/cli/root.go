package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/sixtysix/internal/backup"
	"github.com/julianstephens/sixtysix/internal/constants"
	"github.com/julianstephens/sixtysix/internal/logger"
	"github.com/julianstephens/sixtysix/internal/models"
	"github.com/julianstephens/sixtysix/internal/notify"
	"github.com/julianstephens/sixtysix/internal/prefs"
	"github.com/julianstephens/sixtysix/internal/reminders"
	"github.com/julianstephens/sixtysix/internal/review"
	"github.com/julianstephens/sixtysix/internal/storage"
	"github.com/julianstephens/sixtysix/internal/streak"
	"github.com/julianstephens/sixtysix/internal/tracker"
	"github.com/julianstephens/sixtysix/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	Store   storage.Provider
	Prefs   *prefs.Store
	Tracker *tracker.Service
	Gate    *review.Gate

	// Pending lists the registered notification intents of the configured
	// backend. Flush applies queued store calls first.
	Pending notify.Lister
	Flush   func()

	Out io.Writer
	Ctx context.Context
}

// Options configures NewContext. Zero values fall back to the local
// calendar, the wall clock and stdout.
type Options struct {
	Location      *time.Location
	Clock         utils.Clock
	Notifications notify.Store
	Pending       notify.Lister
	Flush         func()
	Presenter     review.Presenter
	Out           io.Writer
	Reminders     []reminders.Option
	Review        []review.Option
}

// NewContext wires the streak engine, reminder scheduler, review gate and
// tracker around store.
func NewContext(store storage.Provider, p *prefs.Store, opts Options) *Context {
	cal := utils.NewCalendar(opts.Location)
	clock := opts.Clock
	if clock == nil {
		clock = utils.SystemClock{Location: cal.Location()}
	}
	notifications := opts.Notifications
	if notifications == nil {
		notifications = store
	}
	pending := opts.Pending
	if pending == nil {
		pending = store
	}

	engine := streak.NewEngine(cal)
	scheduler := reminders.New(notifications, engine, append([]reminders.Option{reminders.WithClock(clock)}, opts.Reminders...)...)

	gateOpts := opts.Review
	if opts.Presenter != nil {
		gateOpts = append([]review.Option{review.WithPresenter(opts.Presenter)}, gateOpts...)
	}
	gate := review.NewGate(prefs.ReviewCounters{Store: p}, clock, cal, gateOpts...)

	return &Context{
		Store:   store,
		Prefs:   p,
		Tracker: tracker.New(store, engine, scheduler, gate, clock),
		Gate:    gate,
		Pending: pending,
		Flush:   opts.Flush,
		Out:     opts.Out,
	}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) Clock() utils.Clock {
	return c.Tracker.Clock()
}

// Foreground treats the command invocation as the app coming to the
// foreground: broken streaks are reset and every notification intent is
// reconciled.
func (c *Context) Foreground() ([]models.Habit, error) {
	return c.Tracker.Foreground(c.Context())
}

// FlushNotifications waits for queued notification store calls to land.
func (c *Context) FlushNotifications() {
	if c.Flush != nil {
		c.Flush()
	}
}

// PerformAutomaticBackup snapshots SQLite databases and logs failures.
func (c *Context) PerformAutomaticBackup() {
	path := c.Store.GetConfigPath()
	if !strings.HasSuffix(path, constants.BackupFileSuffix) {
		return
	}
	if _, err := backup.NewManager(path).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ProgressBar draws a fixed-width text bar for the habit's progress.
func ProgressBar(h models.Habit, width int) string {
	filled := int(h.ProgressFraction() * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// StatusMarker summarizes the habit's state for list output.
func StatusMarker(h models.Habit, doneToday bool) string {
	switch {
	case h.Status == models.HabitStatusCompleted:
		return "★"
	case doneToday:
		return "✓"
	default:
		return "·"
	}
}
