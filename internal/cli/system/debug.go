package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/sixtysix/internal/cli"
)

type DebugCmd struct {
	DBPath  DebugDBPathCmd  `cmd:"" name:"db-path" help:"Show database path."`
	Intents DebugIntentsCmd `cmd:"" help:"Dump the notification intents the habits should have, as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

// DebugIntentsCmd prints the computed intent set without touching the
// notification store, which helps when the backend is remote.
type DebugIntentsCmd struct{}

func (cmd *DebugIntentsCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Tracker.Habits()
	if err != nil {
		return err
	}
	return printJSON(ctx, ctx.Tracker.Scheduler().Plan(habits))
}

func printJSON(ctx *cli.Context, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(b))
	return nil
}
