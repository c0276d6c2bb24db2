package tui

import (
	"testing"

	"github.com/julianstephens/sixtysix/internal/models"
)

func TestHabitFormInput(t *testing.T) {
	fm := &HabitFormModel{Title: "  Read ", Reminders: "07:30, 21:00,", Motivation: true}
	in, err := fm.Input()
	if err != nil {
		t.Fatalf("Input() failed: %v", err)
	}
	if in.Title != "Read" || !in.MorningMotivation {
		t.Errorf("Input() = %+v", in)
	}
	if len(in.Reminders) != 2 || in.Reminders[0].TimeOfDay() != "07:30" {
		t.Errorf("Input() reminders = %+v", in.Reminders)
	}

	fm.Reminders = "7pm"
	if _, err := fm.Input(); err == nil {
		t.Error("Input() expected error for malformed reminder")
	}
}

func TestHabitFormFrom(t *testing.T) {
	h := models.Habit{
		Title: "Run",
		Reminders: []models.Reminder{
			{ID: "a", Hour: 6, Enabled: true},
			{ID: "b", Hour: 18, Minute: 15, Enabled: false},
		},
		MorningMotivationEnabled: true,
	}
	fm := HabitFormFrom(h)
	if fm.Title != "Run" || fm.Reminders != "06:00" || !fm.Motivation {
		t.Errorf("HabitFormFrom() = %+v", fm)
	}
}
