package system

import (
	"github.com/julianstephens/sixtysix/internal/cli"
	"github.com/julianstephens/sixtysix/internal/models"
)

// SyncCmd runs the foreground reconciliation on its own, for shells and
// schedulers that want intents refreshed without opening the board.
type SyncCmd struct{}

func (c *SyncCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Foreground()
	if err != nil {
		return err
	}

	active := 0
	for _, h := range habits {
		if h.Status == models.HabitStatusActive {
			active++
		}
	}
	ctx.Printf("Synced %d habits (%d active)\n", len(habits), active)
	return nil
}
