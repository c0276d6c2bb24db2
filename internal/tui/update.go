package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sixtysix/internal/constants"
	"github.com/julianstephens/sixtysix/internal/models"
	"github.com/julianstephens/sixtysix/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.habits.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil
	case ReviewMsg:
		m.banner = fmt.Sprintf("%d days in a row! Enjoying sixtysix? A review helps others find it.", msg.Streak)
		return m, nil
	}

	switch m.state {
	case StateAddHabit, StateEditHabit:
		return m.updateForm(msg)
	case StateConfirmReset, StateConfirmDelete:
		return m.updateConfirm(msg)
	}

	if handled, cmd := m.handleHabitMessages(msg); handled {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		// Any other key dismisses the last status line.
		m.status, m.err = "", nil
	}

	var cmd tea.Cmd
	m.habits, cmd = m.habits.Update(msg)
	return m, cmd
}

func (m *Model) handleHabitMessages(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case habitlist.AddHabitMsg:
		m.habitForm = &HabitFormModel{}
		m.form = NewHabitForm(m.habitForm)
		m.state = StateAddHabit
		return true, m.form.Init()

	case habitlist.EditHabitMsg:
		m.habitForm = HabitFormFrom(msg.Habit)
		m.editingID = msg.Habit.ID
		m.form = NewHabitForm(m.habitForm)
		m.state = StateEditHabit
		return true, m.form.Init()

	case habitlist.CheckInMsg:
		res, err := m.tracker.CheckIn(m.ctx, msg.ID)
		switch {
		case err != nil:
			m.err = err
		case res.Event.Completed:
			m.status = fmt.Sprintf("★ %s: %d days. Habit formed!", res.Habit.Title, constants.GoalDays)
		case res.CheckedIn:
			m.status = fmt.Sprintf("✓ %s: day %d/%d", res.Habit.Title, res.Habit.CurrentStreak, constants.GoalDays)
		case res.Habit.Status == models.HabitStatusCompleted && !m.doneToday(res.Habit):
			m.status = fmt.Sprintf("%s is complete. Press 'r' to start a new chapter.", res.Habit.Title)
		}
		m.refresh()
		return true, nil

	case habitlist.UndoMsg:
		h, ok, err := m.tracker.UndoCheckIn(m.ctx, msg.ID)
		switch {
		case err != nil:
			m.err = err
		case ok:
			m.status = fmt.Sprintf("Undid today's check-in for %s", h.Title)
		}
		m.refresh()
		return true, nil

	case habitlist.ResetMsg:
		m.targetID = msg.ID
		m.state = StateConfirmReset
		return true, nil

	case habitlist.DeleteMsg:
		m.targetID = msg.ID
		m.state = StateConfirmDelete
		return true, nil
	}
	return false, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateHabits
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		in, err := m.habitForm.Input()
		if err == nil {
			if m.state == StateAddHabit {
				_, err = m.tracker.CreateHabit(m.ctx, in)
			} else {
				_, err = m.tracker.UpdateHabit(m.ctx, m.editingID, in)
			}
		}
		if err != nil {
			// Stay in the form so the user can fix the input or press esc.
			m.err = err
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.err = nil
		m.refresh()
		m.state = StateHabits
	case huh.StateAborted:
		m.state = StateHabits
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Confirm):
		if m.state == StateConfirmReset {
			h, err := m.tracker.ResetStreak(m.ctx, m.targetID)
			if err != nil {
				m.err = err
			} else {
				m.status = fmt.Sprintf("%s starts chapter %d today", h.Title, h.Chapter)
			}
		} else {
			if err := m.tracker.DeleteHabit(m.ctx, m.targetID); err != nil {
				m.err = err
			} else {
				m.status = "Habit deleted"
			}
		}
		m.refresh()
		m.state = StateHabits
	case key.Matches(k, m.keys.Cancel):
		m.state = StateHabits
	}
	return m, nil
}
