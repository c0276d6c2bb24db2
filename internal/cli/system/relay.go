package system

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/sixtysix/internal/cli"
	"github.com/julianstephens/sixtysix/internal/constants"
	"github.com/julianstephens/sixtysix/internal/notify"
)

// RelayCmd is the receiving end of the amqp notification backend. It replays
// published store calls into the local database so 'notify' can deliver them
// on this machine.
type RelayCmd struct {
	URL   string `help:"AMQP broker URL." env:"SIXTYSIX_AMQP_URL" required:""`
	Queue string `help:"Command queue name." default:"${amqp_queue}"`
}

func (c *RelayCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(ctx.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := c.Queue
	if queue == "" {
		queue = constants.DefaultAMQPQueue
	}
	ctx.Printf("Relaying notification commands from %s into %s\n", queue, maskPassword(ctx.Store.GetConfigPath()))
	return notify.ConsumeAMQP(sigCtx, c.URL, queue, ctx.Store)
}
