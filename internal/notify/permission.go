package notify

import (
	"context"
	"errors"
)

// Permissioned drops registrations while notification permission is not
// granted, mirroring an OS store that silently ignores them. Cancels always
// pass through so stale registrations can still be cleaned up.
type Permissioned struct {
	Store   Store
	Granted func() bool
}

func (p Permissioned) Cancel(ctx context.Context, identifiers []string) error {
	return p.Store.Cancel(ctx, identifiers)
}

func (p Permissioned) Add(ctx context.Context, req Request) error {
	if p.Granted != nil && !p.Granted() {
		return nil
	}
	return p.Store.Add(ctx, req)
}

func (p Permissioned) Pending(ctx context.Context) ([]Request, error) {
	l, ok := p.Store.(Lister)
	if !ok {
		return nil, errors.New("notification store cannot list pending requests")
	}
	return l.Pending(ctx)
}
