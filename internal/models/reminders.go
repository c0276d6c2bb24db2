package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/sixtysix/internal/constants"
)

// ParseReminders turns HH:MM strings into enabled reminder fragments. Blank
// entries are skipped so comma-separated input may have trailing commas.
func ParseReminders(times []string) ([]Reminder, error) {
	reminders := make([]Reminder, 0, len(times))
	for _, s := range times {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		t, err := time.Parse(constants.TimeFormat, s)
		if err != nil {
			return nil, fmt.Errorf("invalid reminder time %q (expected HH:MM)", s)
		}
		reminders = append(reminders, NewReminder(t.Hour(), t.Minute()))
	}
	return reminders, nil
}

// FormatReminders renders fragments as "08:00, 21:30 (off)".
func FormatReminders(reminders []Reminder) string {
	if len(reminders) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(reminders))
	for _, r := range reminders {
		s := r.TimeOfDay()
		if !r.Enabled {
			s += " (off)"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}
