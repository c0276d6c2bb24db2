package reminders

import (
	"github.com/julianstephens/sixtysix/internal/constants"
	"github.com/julianstephens/sixtysix/internal/models"
)

// Identifiers are persisted by the notification store and must stay stable
// across releases.

func ReminderID(habitID, fragmentID string) string {
	return constants.ReminderIDPrefix + habitID + "-" + fragmentID
}

// LegacyReminderID is the single-reminder identifier used before habits could
// carry several reminder fragments. It is only ever cancelled.
func LegacyReminderID(habitID string) string {
	return constants.ReminderIDPrefix + habitID
}

func MotivationID(habitID string) string {
	return constants.MotivationIDPrefix + habitID
}

// LegacyEmergencyID is the old per-habit emergency identifier, superseded by
// the consolidated summary. It is only ever cancelled.
func LegacyEmergencyID(habitID string) string {
	return constants.EmergencyIDPrefix + habitID
}

// fragmentIDs returns the identifiers of every fragment of h, enabled or not.
func fragmentIDs(h models.Habit) []string {
	ids := make([]string, 0, len(h.Reminders))
	for _, r := range h.Reminders {
		ids = append(ids, ReminderID(h.ID, r.ID))
	}
	return ids
}

// HabitIdentifiers returns every identifier derivable from h, including the
// legacy forms.
func HabitIdentifiers(h models.Habit) []string {
	ids := []string{
		LegacyReminderID(h.ID),
		MotivationID(h.ID),
		LegacyEmergencyID(h.ID),
	}
	return append(ids, fragmentIDs(h)...)
}
