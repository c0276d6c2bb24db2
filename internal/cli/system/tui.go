package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sixtysix/internal/cli"
	"github.com/julianstephens/sixtysix/internal/review"
	"github.com/julianstephens/sixtysix/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Foreground()
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Tracker, habits), tea.WithAltScreen())
	ctx.Gate.SetPresenter(review.PresenterFunc(tui.ReviewPresenter(p)))
	_, err = p.Run()
	return err
}
