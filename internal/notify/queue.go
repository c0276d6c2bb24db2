package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/julianstephens/sixtysix/internal/logger"
)

type queuedOp struct {
	ctx context.Context
	run func(ctx context.Context) error
	id  string
}

// Queue makes store calls fire-and-forget. Calls are applied by a single
// worker in submission order, so a later reconciliation for an identifier
// always supersedes an earlier one.
type Queue struct {
	store Store
	ops   chan queuedOp
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewQueue starts a worker applying calls against store. size bounds the
// number of calls buffered before submitters block.
func NewQueue(store Store, size int) *Queue {
	q := &Queue{
		store: store,
		ops:   make(chan queuedOp, size),
	}
	q.wg.Add(1)
	go q.work()
	return q
}

func (q *Queue) work() {
	defer q.wg.Done()
	for op := range q.ops {
		if err := op.run(op.ctx); err != nil {
			if errors.Is(err, ErrPermissionDenied) {
				logger.Debug("Notification dropped", "identifier", op.id, "reason", err)
				continue
			}
			logger.Warn("Notification store call failed", "identifier", op.id, "error", err)
		}
	}
}

func (q *Queue) submit(ctx context.Context, id string, run func(ctx context.Context) error) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return errors.New("notification queue closed")
	}
	// The caller does not wait for the call, so its cancellation must not abort it.
	q.ops <- queuedOp{ctx: context.WithoutCancel(ctx), run: run, id: id}
	return nil
}

func (q *Queue) Cancel(ctx context.Context, identifiers []string) error {
	ids := append([]string(nil), identifiers...)
	label := ""
	if len(ids) > 0 {
		label = ids[0]
	}
	return q.submit(ctx, label, func(ctx context.Context) error {
		return q.store.Cancel(ctx, ids)
	})
}

func (q *Queue) Add(ctx context.Context, req Request) error {
	return q.submit(ctx, req.Identifier, func(ctx context.Context) error {
		return q.store.Add(ctx, req)
	})
}

// Pending reads the wrapped store directly; queued calls are not applied
// first. Callers that need to observe their own writes should Close first.
func (q *Queue) Pending(ctx context.Context) ([]Request, error) {
	l, ok := q.store.(Lister)
	if !ok {
		return nil, errors.New("notification store cannot list pending requests")
	}
	return l.Pending(ctx)
}

// Close stops accepting calls and waits for queued calls to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ops)
	q.mu.Unlock()
	q.wg.Wait()
}
