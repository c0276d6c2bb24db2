package habits

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/sixtysix/internal/cli/clitest"
	"github.com/julianstephens/sixtysix/internal/constants"
	"github.com/julianstephens/sixtysix/internal/reminders"
)

func addHabit(t *testing.T, env *clitest.Env, title string, remind ...string) {
	t.Helper()
	cmd := &HabitAddCmd{Title: title, Remind: remind}
	if err := cmd.Run(env.Context); err != nil {
		t.Fatalf("habit add %q failed: %v", title, err)
	}
}

func pendingIDs(t *testing.T, env *clitest.Env) []string {
	t.Helper()
	reqs, err := env.Pending.Pending(context.Background())
	if err != nil {
		t.Fatalf("Pending() failed: %v", err)
	}
	ids := make([]string, len(reqs))
	for i, r := range reqs {
		ids[i] = r.Identifier
	}
	return ids
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestHabitAddAndList(t *testing.T) {
	env := clitest.New(t)
	addHabit(t, env, "Read", "20:30")

	out := env.Output()
	if !strings.Contains(out, "Added habit: Read") || !strings.Contains(out, "20:30") {
		t.Errorf("unexpected add output: %q", out)
	}

	h, err := env.Tracker.Habit("Read")
	if err != nil {
		t.Fatalf("habit not stored: %v", err)
	}
	ids := pendingIDs(t, env)
	if !contains(ids, reminders.ReminderID(h.ID, h.Reminders[0].ID)) {
		t.Errorf("reminder intent missing from %v", ids)
	}
	if !contains(ids, constants.EmergencySummaryID) {
		t.Errorf("emergency summary missing from %v", ids)
	}

	if err := (&HabitListCmd{}).Run(env.Context); err != nil {
		t.Fatalf("habit list failed: %v", err)
	}
	if out := env.Output(); !strings.Contains(out, "Read") || !strings.Contains(out, " 0/66") {
		t.Errorf("unexpected list output: %q", out)
	}
}

func TestHabitAddRejectsBadReminder(t *testing.T) {
	env := clitest.New(t)
	cmd := &HabitAddCmd{Title: "Run", Remind: []string{"7am"}}
	if err := cmd.Run(env.Context); err == nil {
		t.Fatal("habit add expected error for malformed reminder")
	}
}

func TestHabitCheckinUndo(t *testing.T) {
	env := clitest.New(t)
	addHabit(t, env, "Run")
	env.Output()

	if err := (&HabitCheckinCmd{Habit: "Run"}).Run(env.Context); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	if out := env.Output(); !strings.Contains(out, "day 1/66") {
		t.Errorf("unexpected checkin output: %q", out)
	}
	if contains(pendingIDs(t, env), constants.EmergencySummaryID) {
		t.Error("summary should be cancelled when every habit is done")
	}

	if err := (&HabitCheckinCmd{Habit: "Run"}).Run(env.Context); err != nil {
		t.Fatalf("second checkin failed: %v", err)
	}
	if out := env.Output(); !strings.Contains(out, "already checked in") {
		t.Errorf("unexpected repeat checkin output: %q", out)
	}

	if err := (&HabitUndoCmd{Habit: "Run"}).Run(env.Context); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if out := env.Output(); !strings.Contains(out, "streak 0") {
		t.Errorf("unexpected undo output: %q", out)
	}
	if err := (&HabitUndoCmd{Habit: "Run"}).Run(env.Context); err != nil {
		t.Fatalf("second undo failed: %v", err)
	}
	if out := env.Output(); !strings.Contains(out, "no check-in today") {
		t.Errorf("unexpected repeat undo output: %q", out)
	}
}

func TestHabitMilestonePromptsReview(t *testing.T) {
	env := clitest.New(t)
	addHabit(t, env, "Meditate")

	start := env.Now
	for day := 0; day < 7; day++ {
		env.SetNow(start.AddDate(0, 0, day))
		if err := (&HabitCheckinCmd{Habit: "Meditate"}).Run(env.Context); err != nil {
			t.Fatalf("checkin on day %d failed: %v", day+1, err)
		}
	}
	env.Gate.Wait()

	if len(env.Presented) != 1 || env.Presented[0] != 7 {
		t.Errorf("presented = %v, want [7]", env.Presented)
	}
}

func TestHabitCheckinAfterCompletion(t *testing.T) {
	env := clitest.New(t)
	addHabit(t, env, "Read")

	start := env.Now
	for day := 0; day < constants.GoalDays; day++ {
		env.SetNow(start.AddDate(0, 0, day))
		if err := (&HabitCheckinCmd{Habit: "Read"}).Run(env.Context); err != nil {
			t.Fatalf("checkin on day %d failed: %v", day+1, err)
		}
	}
	env.Gate.Wait()
	env.Output()

	env.SetNow(start.AddDate(0, 0, constants.GoalDays))
	if err := (&HabitCheckinCmd{Habit: "Read"}).Run(env.Context); err != nil {
		t.Fatalf("checkin after completion failed: %v", err)
	}
	if out := env.Output(); !strings.Contains(out, "is complete (66/66)") {
		t.Errorf("unexpected output: %q", out)
	}

	h, err := env.Tracker.Habit("Read")
	if err != nil {
		t.Fatalf("Habit() failed: %v", err)
	}
	if h.CurrentStreak != constants.GoalDays || len(h.CompletedDates) != constants.GoalDays {
		t.Errorf("streak = %d, dates = %d, want %d", h.CurrentStreak, len(h.CompletedDates), constants.GoalDays)
	}
}

func TestHabitMissedDayResets(t *testing.T) {
	env := clitest.New(t)
	addHabit(t, env, "Guitar")
	if err := (&HabitCheckinCmd{Habit: "Guitar"}).Run(env.Context); err != nil {
		t.Fatal(err)
	}

	env.SetNow(env.Now.Add(48 * time.Hour))
	env.Output()
	if err := (&HabitShowCmd{Habit: "Guitar"}).Run(env.Context); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	out := env.Output()
	if !strings.Contains(out, "Chapter:     2") || !strings.Contains(out, "Streak:      0/66") {
		t.Errorf("habit was not reset on foreground: %q", out)
	}
}

func TestHabitEdit(t *testing.T) {
	env := clitest.New(t)
	addHabit(t, env, "Water", "09:00", "12:00")
	before, err := env.Tracker.Habit("Water")
	if err != nil {
		t.Fatal(err)
	}

	cmd := &HabitEditCmd{Habit: "Water", Title: "Drink water", Remind: []string{"10:00"}, Motivation: "on"}
	if err := cmd.Run(env.Context); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	after, err := env.Tracker.Habit("Drink water")
	if err != nil {
		t.Fatalf("renamed habit not found: %v", err)
	}
	if len(after.Reminders) != 1 || after.Reminders[0].TimeOfDay() != "10:00" || !after.MorningMotivationEnabled {
		t.Errorf("edited habit = %+v", after)
	}

	ids := pendingIDs(t, env)
	for _, r := range before.Reminders {
		if contains(ids, reminders.ReminderID(before.ID, r.ID)) {
			t.Errorf("old reminder %s still pending", r.TimeOfDay())
		}
	}
	if !contains(ids, reminders.MotivationID(after.ID)) {
		t.Errorf("motivation intent missing from %v", ids)
	}

	bad := &HabitEditCmd{Habit: "Drink water", ClearReminders: true, Remind: []string{"08:00"}}
	if err := bad.Run(env.Context); err == nil {
		t.Error("edit expected error for --clear-reminders with --remind")
	}
}

func TestHabitResetAndDelete(t *testing.T) {
	env := clitest.New(t)
	addHabit(t, env, "A", "07:00")
	addHabit(t, env, "B")
	env.Output()

	if err := (&HabitResetCmd{Habit: "A", Yes: true}).Run(env.Context); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if out := env.Output(); !strings.Contains(out, "chapter 2") {
		t.Errorf("unexpected reset output: %q", out)
	}

	if err := (&HabitDeleteCmd{}).Run(env.Context); err == nil {
		t.Error("delete expected error without habit or --all")
	}

	a, _ := env.Tracker.Habit("A")
	if err := (&HabitDeleteCmd{Habit: "A", Yes: true}).Run(env.Context); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if contains(pendingIDs(t, env), reminders.ReminderID(a.ID, a.Reminders[0].ID)) {
		t.Error("deleted habit still has a pending reminder")
	}

	if err := (&HabitDeleteCmd{All: true, Yes: true}).Run(env.Context); err != nil {
		t.Fatalf("delete --all failed: %v", err)
	}
	if ids := pendingIDs(t, env); len(ids) != 0 {
		t.Errorf("pending after delete --all = %v", ids)
	}
}

func TestHabitShowJSON(t *testing.T) {
	env := clitest.New(t)
	addHabit(t, env, "Journal")
	env.Output()

	if err := (&HabitShowCmd{Habit: "Journal", JSON: true}).Run(env.Context); err != nil {
		t.Fatalf("show --json failed: %v", err)
	}
	if out := env.Output(); !strings.Contains(out, `"title": "Journal"`) {
		t.Errorf("unexpected json output: %q", out)
	}

	if err := (&HabitShowCmd{Habit: "missing"}).Run(env.Context); err == nil {
		t.Error("show expected error for unknown habit")
	}
}
