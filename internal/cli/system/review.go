package system

import (
	"github.com/julianstephens/sixtysix/internal/cli"
	"github.com/julianstephens/sixtysix/internal/constants"
)

type ReviewCmd struct {
	Status ReviewStatusCmd `cmd:"" default:"1" help:"Show review prompt counters."`
	Reset  ReviewResetCmd  `cmd:"" help:"Clear review prompt counters."`
}

type ReviewStatusCmd struct{}

func (c *ReviewStatusCmd) Run(ctx *cli.Context) error {
	st, err := ctx.Gate.Status()
	if err != nil {
		return err
	}

	ctx.Printf("Prompts this epoch: %d/%d\n", st.PromptCount, constants.ReviewMaxPromptsPerYear)
	if st.LastPromptDate != nil {
		ctx.Printf("Last prompt:        %s\n", st.LastPromptDate.Format(constants.DateFormat))
	} else {
		ctx.Println("Last prompt:        never")
	}
	if st.EpochStart != nil {
		ctx.Printf("Epoch started:      %s\n", st.EpochStart.Format(constants.DateFormat))
	}
	return nil
}

type ReviewResetCmd struct{}

func (c *ReviewResetCmd) Run(ctx *cli.Context) error {
	if err := ctx.Gate.Reset(); err != nil {
		return err
	}
	ctx.Println("Review prompt counters cleared")
	return nil
}
