package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sixtysix/internal/models"
	"github.com/julianstephens/sixtysix/internal/tracker"
)

// HabitFormModel backs the add/edit habit form.
type HabitFormModel struct {
	Title      string
	Reminders  string // comma-separated HH:MM
	Motivation bool
}

// HabitFormFrom prefills the form from an existing habit. Disabled fragments
// are left out, so saving the form drops them.
func HabitFormFrom(h models.Habit) *HabitFormModel {
	var times []string
	for _, r := range h.EnabledReminders() {
		times = append(times, r.TimeOfDay())
	}
	return &HabitFormModel{
		Title:      h.Title,
		Reminders:  strings.Join(times, ", "),
		Motivation: h.MorningMotivationEnabled,
	}
}

// Input converts the form values into tracker input.
func (fm *HabitFormModel) Input() (tracker.HabitInput, error) {
	reminders, err := models.ParseReminders(strings.Split(fm.Reminders, ","))
	if err != nil {
		return tracker.HabitInput{}, err
	}
	return tracker.HabitInput{
		Title:             strings.TrimSpace(fm.Title),
		Reminders:         reminders,
		MorningMotivation: fm.Motivation,
	}, nil
}

func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("habit title cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Reminders (HH:MM, comma separated)").
				Value(&fm.Reminders).
				Validate(func(s string) error {
					_, err := models.ParseReminders(strings.Split(s, ","))
					return err
				}),
			huh.NewConfirm().
				Title("Morning motivation at 08:00?").
				Value(&fm.Motivation),
		),
	).WithTheme(huh.ThemeDracula())
}

// ConfirmationFormModel backs a yes/no confirmation.
type ConfirmationFormModel struct {
	Confirmed bool
}

func NewConfirmationForm(title string, fm *ConfirmationFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
