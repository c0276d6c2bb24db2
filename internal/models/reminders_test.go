package models

import "testing"

func TestParseReminders(t *testing.T) {
	reminders, err := ParseReminders([]string{"08:00", " 21:30 ", ""})
	if err != nil {
		t.Fatalf("ParseReminders() failed: %v", err)
	}
	if len(reminders) != 2 {
		t.Fatalf("ParseReminders() returned %d fragments, want 2", len(reminders))
	}
	if reminders[1].Hour != 21 || reminders[1].Minute != 30 || !reminders[1].Enabled {
		t.Errorf("second fragment = %+v", reminders[1])
	}
	if reminders[0].ID == reminders[1].ID {
		t.Error("fragments share an id")
	}

	if _, err := ParseReminders([]string{"25:00"}); err == nil {
		t.Error("ParseReminders() expected error for invalid time")
	}
}

func TestFormatReminders(t *testing.T) {
	tests := []struct {
		name      string
		reminders []Reminder
		want      string
	}{
		{name: "none", want: "none"},
		{name: "mixed", reminders: []Reminder{
			{Hour: 8, Enabled: true},
			{Hour: 21, Minute: 30},
		}, want: "08:00, 21:30 (off)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatReminders(tt.reminders); got != tt.want {
				t.Errorf("FormatReminders() = %q, want %q", got, tt.want)
			}
		})
	}
}
