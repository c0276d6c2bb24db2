package system

import (
	"context"

	"github.com/julianstephens/sixtysix/internal/cli"
	"github.com/julianstephens/sixtysix/internal/notify"
)

type deliverer interface {
	Deliver(ctx context.Context, req notify.Request) error
}

var newDeliverer = func() deliverer { return notify.NewTray() }

// NotifyCmd delivers the intents due this minute through the desktop tray.
// It is meant to run once a minute from cron or a systemd timer.
type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Foreground(); err != nil {
		return err
	}
	ctx.FlushNotifications()

	if !ctx.Prefs.NotificationsGranted() {
		if c.DryRun {
			ctx.Println("Notifications are not permitted. Run 'sixtysix permission grant'.")
		}
		return nil
	}

	pending, err := ctx.Pending.Pending(ctx.Context())
	if err != nil {
		return err
	}
	due := notify.Due(pending, ctx.Clock().Now())
	if len(due) == 0 {
		if c.DryRun {
			ctx.Println("Nothing due.")
		}
		return nil
	}

	d := newDeliverer()
	for _, req := range due {
		if c.DryRun {
			ctx.Printf("[DryRun] %s: %s\n", req.Title, req.Body)
			continue
		}
		if err := d.Deliver(ctx.Context(), req); err != nil {
			ctx.Printf("Failed to send notification %s: %v\n", req.Identifier, err)
		}
	}
	return nil
}

type NotificationsCmd struct {
	List NotificationsListCmd `cmd:"" default:"1" help:"List pending notification intents."`
}

type NotificationsListCmd struct{}

func (c *NotificationsListCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Foreground(); err != nil {
		return err
	}
	ctx.FlushNotifications()

	pending, err := ctx.Pending.Pending(ctx.Context())
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		ctx.Println("No pending notifications.")
		return nil
	}
	for _, req := range pending {
		ctx.Printf("%-50s %-28s %s\n", req.Identifier, req.Trigger, req.Title)
	}
	return nil
}
