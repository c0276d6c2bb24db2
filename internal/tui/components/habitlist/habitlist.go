package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sixtysix/internal/constants"
	"github.com/julianstephens/sixtysix/internal/models"
)

type AddHabitMsg struct{}

type EditHabitMsg struct {
	Habit models.Habit
}

type CheckInMsg struct {
	ID string
}

type UndoMsg struct {
	ID string
}

type ResetMsg struct {
	ID string
}

type DeleteMsg struct {
	ID string
}

var bar = progress.New(
	progress.WithDefaultGradient(),
	progress.WithWidth(30),
	progress.WithoutPercentage(),
)

type Item struct {
	Habit     models.Habit
	DoneToday bool
}

func (i Item) Title() string {
	switch {
	case i.Habit.Status == models.HabitStatusCompleted:
		return "★ " + i.Habit.Title
	case i.DoneToday:
		return "✓ " + i.Habit.Title
	default:
		return "○ " + i.Habit.Title
	}
}

func (i Item) Description() string {
	return fmt.Sprintf("%s  %2d/%d · chapter %d",
		bar.ViewAs(i.Habit.ProgressFraction()), i.Habit.CurrentStreak, constants.GoalDays, i.Habit.Chapter)
}

func (i Item) FilterValue() string { return i.Habit.Title }

type KeyMap struct {
	Add     key.Binding
	Edit    key.Binding
	CheckIn key.Binding
	Undo    key.Binding
	Reset   key.Binding
	Delete  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		CheckIn: key.NewBinding(
			key.WithKeys("c", " "),
			key.WithHelp("c/space", "check in"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.CheckIn, k.Undo, k.Add, k.Edit, k.Reset, k.Delete}
}

type Model struct {
	list list.Model
	keys KeyMap
}

// New builds the list. done reports whether a habit is checked in today.
func New(habits []models.Habit, done func(models.Habit) bool, width, height int) Model {
	l := list.New(items(habits, done), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	return Model{list: l, keys: keys}
}

func items(habits []models.Habit, done func(models.Habit) bool) []list.Item {
	out := make([]list.Item, len(habits))
	for i, h := range habits {
		out[i] = Item{Habit: h, DoneToday: done != nil && done(h)}
	}
	return out
}

func (m *Model) SetHabits(habits []models.Habit, done func(models.Habit) bool) {
	m.list.SetItems(items(habits, done))
}

func (m Model) Keys() KeyMap {
	return m.keys
}

// Selected returns the highlighted habit.
func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddHabitMsg{} }
		}
		i, ok := m.Selected()
		if !ok {
			break
		}
		switch {
		case key.Matches(msg, m.keys.CheckIn):
			if i.Habit.Status == models.HabitStatusActive && !i.DoneToday {
				return m, func() tea.Msg { return CheckInMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Undo):
			if i.DoneToday {
				return m, func() tea.Msg { return UndoMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Edit):
			return m, func() tea.Msg { return EditHabitMsg{Habit: i.Habit} }
		case key.Matches(msg, m.keys.Reset):
			return m, func() tea.Msg { return ResetMsg{ID: i.Habit.ID} }
		case key.Matches(msg, m.keys.Delete):
			return m, func() tea.Msg { return DeleteMsg{ID: i.Habit.ID} }
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to start one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
