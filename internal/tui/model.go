// Package tui is the interactive habit board.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sixtysix/internal/models"
	"github.com/julianstephens/sixtysix/internal/tracker"
	"github.com/julianstephens/sixtysix/internal/tui/components/habitlist"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateAddHabit
	StateEditHabit
	StateConfirmReset
	StateConfirmDelete
)

// ReviewMsg asks the board to show the review request banner.
type ReviewMsg struct {
	Streak int
}

// ReviewPresenter forwards review requests from the gate's timer goroutine
// into the running program.
func ReviewPresenter(p *tea.Program) func(ctx context.Context, streak int) error {
	return func(_ context.Context, streak int) error {
		p.Send(ReviewMsg{Streak: streak})
		return nil
	}
}

type Model struct {
	tracker   *tracker.Service
	ctx       context.Context
	state     SessionState
	keys      KeyMap
	help      help.Model
	habits    habitlist.Model
	form      *huh.Form
	habitForm *HabitFormModel
	editingID string
	targetID  string
	status    string
	err       error
	banner    string
	quitting  bool
	width     int
	height    int
}

// NewModel builds the board over habits, which should already have been
// through the foreground reconciliation.
func NewModel(svc *tracker.Service, habits []models.Habit) Model {
	m := Model{
		tracker: svc,
		ctx:     context.Background(),
		state:   StateHabits,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
	m.habits = habitlist.New(habits, m.doneToday, 0, 0)
	return m
}

func (m Model) doneToday(h models.Habit) bool {
	return m.tracker.Engine().IsCompletedToday(h, m.tracker.Clock().Now())
}

// refresh reloads the list from storage.
func (m *Model) refresh() {
	habits, err := m.tracker.Habits()
	if err != nil {
		m.err = err
		return
	}
	m.habits.SetHabits(habits, m.doneToday)
}

func (m Model) ShortHelp() []key.Binding {
	k := m.habits.Keys()
	return []key.Binding{k.CheckIn, k.Undo, m.keys.Help, m.keys.Quit}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down, m.keys.Help, m.keys.Quit},
		m.habits.Keys().Bindings(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.habits.Init()
}
