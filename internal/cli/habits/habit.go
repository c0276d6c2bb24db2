package habits

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/sixtysix/internal/cli"
	"github.com/julianstephens/sixtysix/internal/constants"
	"github.com/julianstephens/sixtysix/internal/models"
	"github.com/julianstephens/sixtysix/internal/tracker"
	"github.com/julianstephens/sixtysix/internal/tui"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits and their streaks."`
	Show    HabitShowCmd    `cmd:"" help:"Show one habit in detail."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit a habit's title, reminders or motivation."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit and its notifications."`
	Checkin HabitCheckinCmd `cmd:"" help:"Check in today."`
	Undo    HabitUndoCmd    `cmd:"" help:"Undo today's check-in."`
	Reset   HabitResetCmd   `cmd:"" help:"Abandon the current streak and start a new chapter."`
}

// confirm asks a yes/no question unless skip is set.
var confirm = func(title string, skip bool) (bool, error) {
	if skip {
		return true, nil
	}
	fm := &tui.ConfirmationFormModel{}
	if err := tui.NewConfirmationForm(title, fm).Run(); err != nil {
		return false, err
	}
	return fm.Confirmed, nil
}

type HabitAddCmd struct {
	Title       string   `arg:"" optional:"" help:"Habit title."`
	Remind      []string `help:"Reminder time (HH:MM). Repeat or comma-separate for several." sep:","`
	Motivation  bool     `help:"Send a motivation message every morning at 08:00."`
	Interactive bool     `short:"i" help:"Fill in the habit with a form."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Foreground(); err != nil {
		return err
	}

	var in tracker.HabitInput
	if c.Interactive || c.Title == "" {
		fm := &tui.HabitFormModel{
			Title:      c.Title,
			Reminders:  strings.Join(c.Remind, ", "),
			Motivation: c.Motivation,
		}
		if err := tui.NewHabitForm(fm).Run(); err != nil {
			return err
		}
		var err error
		if in, err = fm.Input(); err != nil {
			return err
		}
	} else {
		reminders, err := models.ParseReminders(c.Remind)
		if err != nil {
			return err
		}
		in = tracker.HabitInput{Title: c.Title, Reminders: reminders, MorningMotivation: c.Motivation}
	}

	h, err := ctx.Tracker.CreateHabit(ctx.Context(), in)
	if err != nil {
		return err
	}
	ctx.Printf("Added habit: %s\n", h.Title)
	ctx.Printf("  Reminders: %s\n", models.FormatReminders(h.Reminders))
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Foreground()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.Println("No habits yet. Add one with 'sixtysix habit add'.")
		return nil
	}

	engine := ctx.Tracker.Engine()
	now := ctx.Clock().Now()
	for _, h := range habits {
		done := engine.IsCompletedToday(h, now)
		ctx.Printf("%s %-24s %s %2d/%d  ch.%d\n",
			cli.StatusMarker(h, done), h.Title, cli.ProgressBar(h, 20),
			h.CurrentStreak, constants.GoalDays, h.Chapter)
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
	JSON  bool   `help:"Print the stored record as JSON."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Foreground(); err != nil {
		return err
	}
	h, err := ctx.Tracker.Habit(c.Habit)
	if err != nil {
		return err
	}

	if c.JSON {
		b, err := json.MarshalIndent(h, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal habit: %w", err)
		}
		ctx.Println(string(b))
		return nil
	}

	engine := ctx.Tracker.Engine()
	now := ctx.Clock().Now()
	ctx.Printf("%s\n", h.Title)
	ctx.Printf("  ID:          %s\n", h.ID)
	ctx.Printf("  Status:      %s\n", h.Status)
	ctx.Printf("  Chapter:     %d (started %s)\n", h.Chapter, h.StartDate.Format(constants.DateFormat))
	ctx.Printf("  Streak:      %d/%d %s %d%%\n", h.CurrentStreak, constants.GoalDays, cli.ProgressBar(h, 20), h.ProgressPercentage())
	ctx.Printf("  Remaining:   %d days\n", engine.DaysRemaining(h))
	ctx.Printf("  Today:       %s\n", map[bool]string{true: "checked in", false: "not yet"}[engine.IsCompletedToday(h, now)])
	ctx.Printf("  Reminders:   %s\n", models.FormatReminders(h.Reminders))
	ctx.Printf("  Motivation:  %s\n", map[bool]string{true: "on", false: "off"}[h.MorningMotivationEnabled])
	return nil
}

type HabitEditCmd struct {
	Habit          string   `arg:"" help:"Habit id or title."`
	Title          string   `help:"New title."`
	Remind         []string `help:"Replace reminder times (HH:MM)." sep:","`
	ClearReminders bool     `help:"Remove every reminder."`
	Motivation     string   `help:"Turn morning motivation on or off." enum:",on,off" default:""`
	Interactive    bool     `short:"i" help:"Edit the habit with a form."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Foreground(); err != nil {
		return err
	}
	h, err := ctx.Tracker.Habit(c.Habit)
	if err != nil {
		return err
	}

	in, err := c.input(h)
	if err != nil {
		return err
	}

	updated, err := ctx.Tracker.UpdateHabit(ctx.Context(), h.ID, in)
	if err != nil {
		return err
	}
	ctx.Printf("Updated habit: %s\n", updated.Title)
	return nil
}

func (c *HabitEditCmd) input(h models.Habit) (tracker.HabitInput, error) {
	if c.Interactive {
		fm := tui.HabitFormFrom(h)
		if err := tui.NewHabitForm(fm).Run(); err != nil {
			return tracker.HabitInput{}, err
		}
		return fm.Input()
	}

	in := tracker.HabitInput{
		Title:             h.Title,
		Reminders:         h.Reminders,
		MorningMotivation: h.MorningMotivationEnabled,
	}
	if c.Title != "" {
		in.Title = c.Title
	}
	switch {
	case c.ClearReminders && len(c.Remind) > 0:
		return tracker.HabitInput{}, errors.New("--clear-reminders cannot be combined with --remind")
	case c.ClearReminders:
		in.Reminders = nil
	case len(c.Remind) > 0:
		reminders, err := models.ParseReminders(c.Remind)
		if err != nil {
			return tracker.HabitInput{}, err
		}
		in.Reminders = reminders
	}
	switch c.Motivation {
	case "on":
		in.MorningMotivation = true
	case "off":
		in.MorningMotivation = false
	}
	return in, nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" optional:"" help:"Habit id or title."`
	All   bool   `help:"Delete every habit."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if c.All == (c.Habit != "") {
		return errors.New("specify either a habit or --all")
	}
	if _, err := ctx.Foreground(); err != nil {
		return err
	}

	if c.All {
		ok, err := confirm("Delete every habit and its streak history?", c.Yes)
		if err != nil || !ok {
			return err
		}
		n, err := ctx.Tracker.DeleteAllHabits(ctx.Context())
		if err != nil {
			return err
		}
		ctx.Printf("Deleted %d habits\n", n)
		return nil
	}

	h, err := ctx.Tracker.Habit(c.Habit)
	if err != nil {
		return err
	}
	ok, err := confirm(fmt.Sprintf("Delete %q (streak %d)?", h.Title, h.CurrentStreak), c.Yes)
	if err != nil || !ok {
		return err
	}
	if err := ctx.Tracker.DeleteHabit(ctx.Context(), h.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted habit: %s\n", h.Title)
	return nil
}

type HabitCheckinCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
}

func (c *HabitCheckinCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Foreground(); err != nil {
		return err
	}
	h, err := ctx.Tracker.Habit(c.Habit)
	if err != nil {
		return err
	}

	res, err := ctx.Tracker.CheckIn(ctx.Context(), h.ID)
	if err != nil {
		return err
	}
	if !res.CheckedIn {
		if res.Habit.Status == models.HabitStatusCompleted && !ctx.Tracker.Engine().IsCompletedToday(res.Habit, ctx.Clock().Now()) {
			ctx.Printf("%s is complete (%d/%d). Reset it to start a new chapter.\n", h.Title, res.Habit.CurrentStreak, constants.GoalDays)
			return nil
		}
		ctx.Printf("%s is already checked in today (day %d)\n", h.Title, h.CurrentStreak)
		return nil
	}

	if res.Event.Completed {
		ctx.Printf("★ %s: %d/%d. Habit complete!\n", res.Habit.Title, res.Event.Streak, constants.GoalDays)
	} else {
		ctx.Printf("✓ %s: day %d/%d\n", res.Habit.Title, res.Event.Streak, constants.GoalDays)
	}
	return nil
}

type HabitUndoCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
}

func (c *HabitUndoCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Foreground(); err != nil {
		return err
	}
	h, err := ctx.Tracker.Habit(c.Habit)
	if err != nil {
		return err
	}

	undone, ok, err := ctx.Tracker.UndoCheckIn(ctx.Context(), h.ID)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Printf("%s has no check-in today\n", h.Title)
		return nil
	}
	ctx.Printf("Undid today's check-in for %s (streak %d)\n", undone.Title, undone.CurrentStreak)
	return nil
}

type HabitResetCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *HabitResetCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Foreground(); err != nil {
		return err
	}
	h, err := ctx.Tracker.Habit(c.Habit)
	if err != nil {
		return err
	}

	ok, err := confirm(fmt.Sprintf("Reset %q and start chapter %d?", h.Title, h.Chapter+1), c.Yes)
	if err != nil || !ok {
		return err
	}
	reset, err := ctx.Tracker.ResetStreak(ctx.Context(), h.ID)
	if err != nil {
		return err
	}
	ctx.Printf("%s starts chapter %d today\n", reset.Title, reset.Chapter)
	return nil
}
