package notify

import (
	"context"
	"sync"
)

type OpKind string

const (
	OpCancel OpKind = "cancel"
	OpAdd    OpKind = "add"
)

// Op records one call made against a MemoryStore.
type Op struct {
	Kind        OpKind
	Identifiers []string
	Request     Request
}

// MemoryStore is an in-process notification store. It backs dry runs and
// serves as the test double for the scheduler.
type MemoryStore struct {
	mu      sync.Mutex
	pending map[string]Request
	ops     []Op
	denied  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pending: make(map[string]Request)}
}

// Deny makes subsequent Add calls fail with ErrPermissionDenied.
func (m *MemoryStore) Deny(denied bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.denied = denied
}

func (m *MemoryStore) Cancel(_ context.Context, identifiers []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, Op{Kind: OpCancel, Identifiers: append([]string(nil), identifiers...)})
	for _, id := range identifiers {
		delete(m.pending, id)
	}
	return nil
}

func (m *MemoryStore) Add(_ context.Context, req Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, Op{Kind: OpAdd, Request: req})
	if m.denied {
		return ErrPermissionDenied
	}
	m.pending[req.Identifier] = req
	return nil
}

func (m *MemoryStore) Pending(_ context.Context) ([]Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reqs := make([]Request, 0, len(m.pending))
	for _, r := range m.pending {
		reqs = append(reqs, r)
	}
	SortRequests(reqs)
	return reqs, nil
}

// Get returns the pending request registered under id.
func (m *MemoryStore) Get(id string) (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.pending[id]
	return r, ok
}

// Identifiers returns the pending identifiers in sorted order.
func (m *MemoryStore) Identifiers() []string {
	reqs, _ := m.Pending(context.Background())
	ids := make([]string, len(reqs))
	for i, r := range reqs {
		ids[i] = r.Identifier
	}
	return ids
}

// Ops returns a copy of the recorded call log.
func (m *MemoryStore) Ops() []Op {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Op(nil), m.ops...)
}

// ResetOps clears the call log without touching pending requests.
func (m *MemoryStore) ResetOps() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = nil
}
