package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddHabit, StateEditHabit:
		content = m.form.View()
	case StateConfirmReset:
		content = m.viewConfirm("Start a new chapter for this habit? The current streak is lost.")
	case StateConfirmDelete:
		content = m.viewConfirm("Delete this habit and its reminders?")
	default:
		content = docStyle.Render(m.habits.View())
	}

	parts := []string{titleStyle.Render("sixtysix")}
	if m.banner != "" {
		parts = append(parts, bannerStyle.Render(m.banner))
	}
	parts = append(parts, content)
	switch {
	case m.err != nil:
		parts = append(parts, errorStyle.Render("Error: "+m.err.Error()))
	case m.status != "":
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewConfirm(question string) string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(question),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
