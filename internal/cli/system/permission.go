package system

import (
	"github.com/julianstephens/sixtysix/internal/cli"
)

// PermissionCmd stands in for the OS notification permission prompt.
type PermissionCmd struct {
	Grant  PermissionGrantCmd  `cmd:"" help:"Allow sixtysix to schedule notifications."`
	Revoke PermissionRevokeCmd `cmd:"" help:"Stop scheduling notifications and cancel pending ones."`
	Status PermissionStatusCmd `cmd:"" default:"1" help:"Show whether notifications are allowed."`
}

type PermissionGrantCmd struct{}

func (c *PermissionGrantCmd) Run(ctx *cli.Context) error {
	if err := ctx.Prefs.SetNotificationsGranted(true); err != nil {
		return err
	}
	if _, err := ctx.Foreground(); err != nil {
		return err
	}
	ctx.Println("✓ Notifications allowed")
	return nil
}

type PermissionRevokeCmd struct{}

func (c *PermissionRevokeCmd) Run(ctx *cli.Context) error {
	if err := ctx.Prefs.SetNotificationsGranted(false); err != nil {
		return err
	}
	habits, err := ctx.Tracker.Habits()
	if err != nil {
		return err
	}
	s := ctx.Tracker.Scheduler()
	for _, h := range habits {
		s.CancelNotifications(ctx.Context(), h)
	}
	s.ScheduleConsolidatedEmergencyReminder(ctx.Context(), nil)
	ctx.Println("Notifications disabled")
	return nil
}

type PermissionStatusCmd struct{}

func (c *PermissionStatusCmd) Run(ctx *cli.Context) error {
	if ctx.Prefs.NotificationsGranted() {
		ctx.Println("Notifications: allowed")
	} else {
		ctx.Println("Notifications: not allowed")
	}
	return nil
}
