// Package notify defines the notification store the reminder scheduler
// reconciles against, and the backends that implement it.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/sixtysix/internal/constants"
)

// ErrPermissionDenied is returned by stores that refuse registrations because
// the user has not granted notification permission.
var ErrPermissionDenied = errors.New("notification permission not granted")

type TriggerKind string

const (
	TriggerDaily TriggerKind = "daily"
	TriggerOnce  TriggerKind = "once"
)

// Trigger is either a daily repeat at Hour:Minute or a one-shot at At.
type Trigger struct {
	Kind   TriggerKind `json:"kind"`
	Hour   int         `json:"hour,omitempty"`
	Minute int         `json:"minute,omitempty"`
	At     *time.Time  `json:"at,omitempty"`
}

func DailyAt(hour, minute int) Trigger {
	return Trigger{Kind: TriggerDaily, Hour: hour, Minute: minute}
}

func OnceAt(at time.Time) Trigger {
	return Trigger{Kind: TriggerOnce, At: &at}
}

func (t Trigger) String() string {
	switch t.Kind {
	case TriggerDaily:
		return fmt.Sprintf("daily at %02d:%02d", t.Hour, t.Minute)
	case TriggerOnce:
		if t.At == nil {
			return "once (unscheduled)"
		}
		return "once at " + t.At.Format(constants.DateFormat+" "+constants.TimeFormat)
	default:
		return "unknown"
	}
}

// Request is a notification intent registered under a stable identifier.
// Adding a request replaces any existing one with the same identifier.
type Request struct {
	Identifier string  `json:"identifier"`
	Title      string  `json:"title"`
	Body       string  `json:"body"`
	Trigger    Trigger `json:"trigger"`
}

// Store is the external notification store. Implementations must treat Add as
// an overwrite by identifier and Cancel of unknown identifiers as a no-op.
type Store interface {
	Cancel(ctx context.Context, identifiers []string) error
	Add(ctx context.Context, req Request) error
}

// Lister is implemented by stores that can report their pending requests.
type Lister interface {
	Pending(ctx context.Context) ([]Request, error)
}

// SortRequests orders requests by identifier.
func SortRequests(reqs []Request) {
	sort.Slice(reqs, func(i, j int) bool {
		return reqs[i].Identifier < reqs[j].Identifier
	})
}
