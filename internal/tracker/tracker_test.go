package tracker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/sixtysix/internal/constants"
	"github.com/julianstephens/sixtysix/internal/models"
	"github.com/julianstephens/sixtysix/internal/notify"
	"github.com/julianstephens/sixtysix/internal/reminders"
	"github.com/julianstephens/sixtysix/internal/storage"
	"github.com/julianstephens/sixtysix/internal/streak"
	"github.com/julianstephens/sixtysix/internal/utils"
)

type firstRand struct{}

func (firstRand) Intn(int) int { return 0 }

type recordingGate struct {
	streaks []int
}

func (g *recordingGate) RequestIfAppropriate(_ context.Context, streak int) bool {
	g.streaks = append(g.streaks, streak)
	return streak == 7
}

type fixture struct {
	now    time.Time
	store  *storage.JSONStore
	notes  *notify.MemoryStore
	gate   *recordingGate
	svc    *Service
	ctx    context.Context
	engine *streak.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		now:   time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
		store: storage.NewJSONStore(filepath.Join(t.TempDir(), "habits.json")),
		notes: notify.NewMemoryStore(),
		gate:  &recordingGate{},
		ctx:   context.Background(),
	}
	require.NoError(t, f.store.Init())

	clock := utils.ClockFunc(func() time.Time { return f.now })
	f.engine = streak.NewEngine(utils.NewCalendar(time.UTC))
	sched := reminders.New(f.notes, f.engine, reminders.WithClock(clock), reminders.WithRand(firstRand{}))
	f.svc = New(f.store, f.engine, sched, f.gate, clock)
	return f
}

func (f *fixture) nextDay() {
	f.now = f.now.AddDate(0, 0, 1)
}

func TestCreateHabitSchedulesIntents(t *testing.T) {
	f := newFixture(t)

	h, err := f.svc.CreateHabit(f.ctx, HabitInput{
		Title:             "  Read  ",
		Reminders:         []models.Reminder{{Hour: 20, Minute: 15, Enabled: true}},
		MorningMotivation: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Read", h.Title)
	require.Len(t, h.Reminders, 1)
	assert.NotEmpty(t, h.Reminders[0].ID)

	assert.ElementsMatch(t, []string{
		reminders.ReminderID(h.ID, h.Reminders[0].ID),
		reminders.MotivationID(h.ID),
		constants.EmergencySummaryID,
	}, f.notes.Identifiers())

	_, err = f.svc.CreateHabit(f.ctx, HabitInput{Title: "Read"})
	assert.Error(t, err, "duplicate titles are rejected")

	_, err = f.svc.CreateHabit(f.ctx, HabitInput{Title: "   "})
	assert.Error(t, err)
}

func TestCheckInFansOut(t *testing.T) {
	f := newFixture(t)
	a, err := f.svc.CreateHabit(f.ctx, HabitInput{Title: "A"})
	require.NoError(t, err)
	b, err := f.svc.CreateHabit(f.ctx, HabitInput{Title: "B"})
	require.NoError(t, err)

	res, err := f.svc.CheckIn(f.ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, res.CheckedIn)
	assert.Equal(t, 1, res.Event.Streak)
	assert.Equal(t, []int{1}, f.gate.streaks)

	stored, err := f.svc.Habit(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentStreak)

	// Only B is still at risk, so the summary is personalized for it.
	summary, ok := f.notes.Get(constants.EmergencySummaryID)
	require.True(t, ok)
	assert.Contains(t, summary.Body, "B")

	again, err := f.svc.CheckIn(f.ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, again.CheckedIn)
	assert.Equal(t, []int{1}, f.gate.streaks, "a no-op check-in does not reach the gate")

	_, err = f.svc.CheckIn(f.ctx, b.ID)
	require.NoError(t, err)
	_, ok = f.notes.Get(constants.EmergencySummaryID)
	assert.False(t, ok, "summary is cancelled once nothing is at risk")
}

func TestCheckInReportsReviewRequest(t *testing.T) {
	f := newFixture(t)
	h, err := f.svc.CreateHabit(f.ctx, HabitInput{Title: "Run"})
	require.NoError(t, err)

	var last CheckInResult
	for i := 0; i < 7; i++ {
		last, err = f.svc.CheckIn(f.ctx, h.ID)
		require.NoError(t, err)
		f.nextDay()
	}
	assert.Equal(t, 7, last.Event.Streak)
	assert.True(t, last.ReviewRequested)
}

func TestCheckInAfterGoalIsRefused(t *testing.T) {
	f := newFixture(t)
	h, err := f.svc.CreateHabit(f.ctx, HabitInput{Title: "Walk"})
	require.NoError(t, err)

	for i := 0; i < constants.GoalDays; i++ {
		_, err = f.svc.CheckIn(f.ctx, h.ID)
		require.NoError(t, err)
		f.nextDay()
	}
	f.gate.streaks = nil

	res, err := f.svc.CheckIn(f.ctx, h.ID)
	require.NoError(t, err)
	assert.False(t, res.CheckedIn)
	assert.Empty(t, f.gate.streaks)

	stored, err := f.svc.Habit(h.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.GoalDays, stored.CurrentStreak)
	assert.Len(t, stored.CompletedDates, constants.GoalDays)
	assert.Equal(t, models.HabitStatusCompleted, stored.Status)

	// The habit stays editable.
	_, err = f.svc.UpdateHabit(f.ctx, h.ID, HabitInput{Title: "Long walk"})
	assert.NoError(t, err)
}

func TestUndoCheckIn(t *testing.T) {
	f := newFixture(t)
	h, err := f.svc.CreateHabit(f.ctx, HabitInput{Title: "Stretch"})
	require.NoError(t, err)

	_, ok, err := f.svc.UndoCheckIn(f.ctx, h.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.svc.CheckIn(f.ctx, h.ID)
	require.NoError(t, err)
	_, hasSummary := f.notes.Get(constants.EmergencySummaryID)
	require.False(t, hasSummary)

	undone, ok, err := f.svc.UndoCheckIn(f.ctx, h.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, undone.CurrentStreak)
	assert.Nil(t, undone.LastCheckInDate)

	_, hasSummary = f.notes.Get(constants.EmergencySummaryID)
	assert.True(t, hasSummary, "undo puts the habit back at risk")
}

func TestForegroundResetsMissedDay(t *testing.T) {
	f := newFixture(t)
	h, err := f.svc.CreateHabit(f.ctx, HabitInput{Title: "Guitar"})
	require.NoError(t, err)

	res, err := f.svc.CheckIn(f.ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Habit.CurrentStreak)
	assert.False(t, res.Event.Completed)

	f.nextDay()
	f.nextDay()
	habits, err := f.svc.Foreground(f.ctx)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, 0, habits[0].CurrentStreak)
	assert.Equal(t, 2, habits[0].Chapter)

	stored, err := f.svc.Habit("Guitar")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CurrentStreak)
	assert.Equal(t, 2, stored.Chapter)
	assert.True(t, stored.StartDate.Equal(utils.NewCalendar(time.UTC).StartOfDay(f.now)))
}

func TestUpdateHabitReplacesFragments(t *testing.T) {
	f := newFixture(t)
	h, err := f.svc.CreateHabit(f.ctx, HabitInput{
		Title:     "Water",
		Reminders: []models.Reminder{{ID: "morning", Hour: 9, Enabled: true}, {ID: "noon", Hour: 12, Enabled: true}},
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateHabit(f.ctx, h.ID, HabitInput{
		Title:     "Drink water",
		Reminders: []models.Reminder{{ID: "noon", Hour: 13, Enabled: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Drink water", updated.Title)

	_, ok := f.notes.Get(reminders.ReminderID(h.ID, "morning"))
	assert.False(t, ok, "removed fragment is cancelled")
	req, ok := f.notes.Get(reminders.ReminderID(h.ID, "noon"))
	require.True(t, ok)
	assert.Equal(t, notify.DailyAt(13, 0), req.Trigger)
	assert.Equal(t, "Drink water", req.Title)
}

func TestResetAndDelete(t *testing.T) {
	f := newFixture(t)
	a, err := f.svc.CreateHabit(f.ctx, HabitInput{Title: "A", MorningMotivation: true})
	require.NoError(t, err)
	_, err = f.svc.CreateHabit(f.ctx, HabitInput{Title: "B"})
	require.NoError(t, err)

	_, err = f.svc.CheckIn(f.ctx, a.ID)
	require.NoError(t, err)
	reset, err := f.svc.ResetStreak(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reset.CurrentStreak)
	assert.Equal(t, 2, reset.Chapter)

	require.NoError(t, f.svc.DeleteHabit(f.ctx, a.ID))
	_, ok := f.notes.Get(reminders.MotivationID(a.ID))
	assert.False(t, ok)
	_, err = f.svc.Habit(a.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	n, err := f.svc.DeleteAllHabits(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, f.notes.Identifiers())
}
