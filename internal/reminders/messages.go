package reminders

import (
	"fmt"
	"strconv"
	"strings"
)

const emergencyTitle = "⚠️ Streak Risk"

var reminderMessages = []string{
	"Day %d is waiting.",
	"Don't break your streak.",
	"Your streak needs you today.",
	"%d days strong. Don't stop now.",
	"One check-in. That's all it takes.",
	"You didn't come this far to quit.",
	"Protect the streak. Check in today.",
	"Day %d won't complete itself.",
}

var motivationMessages = []string{
	"You crushed yesterday. Keep going.",
	"Consistency builds identity.",
	"Small steps, big results.",
	"You're building something powerful.",
	"Every day counts. Especially today.",
	"The chain grows stronger with you.",
	"Winners show up every single day.",
	"Your future self will thank you.",
}

var consolidatedMessages = []string{
	"🔥 The flame is flickering! Complete %d habits to keep it alive.",
	"⚠️ Emergency: %d habits are still pending. Don't let them go cold!",
	"Don't extinguish the fire. You have %d habits left today.",
	"3 hours left! ⏳ Finish your %d habits to save your streaks.",
	"It only takes one spark. ✨ %d habits are waiting for you.",
	"You're on fire! 🔥 Don't let %d habits break your chain.",
	"Protect the flame. 🛡️ %d habits need your attention now!",
	"Keep the fire burning. 🔥 %d habits remaining for today.",
	"Warning: Streaks at risk. 🧯 Complete %d habits to save them!",
	"The chain is strong. 💪 Don't let %d habits break it tonight.",
}

const (
	fallbackReminder     = "Don't break your streak."
	fallbackMotivation   = "Consistency builds identity."
	fallbackConsolidated = "🔥 %d habits left! Keep your streaks burning."
)

// ReminderMessages returns a copy of the reminder body templates.
func ReminderMessages() []string { return append([]string(nil), reminderMessages...) }

// MotivationMessages returns a copy of the morning motivation bodies.
func MotivationMessages() []string { return append([]string(nil), motivationMessages...) }

// ConsolidatedMessages returns a copy of the multi-habit emergency templates.
func ConsolidatedMessages() []string { return append([]string(nil), consolidatedMessages...) }

// fill substitutes every %d in template with n. Templates without a
// placeholder are returned unchanged.
func fill(template string, n int) string {
	return strings.ReplaceAll(template, "%d", strconv.Itoa(n))
}

func singleHabitBody(title string, day int) string {
	return fmt.Sprintf("🔥 Don't let %s go cold! Check in now to save your %d-day streak.", title, day)
}
