package memory

import (
	"context"
	"sync"

	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
)

// AccessLogStore is an in-memory append-only log of access events.
type AccessLogStore struct {
	mu     sync.Mutex
	nextID int64
	events []types.AccessEvent
}

func NewAccessLogStore() *AccessLogStore {
	return &AccessLogStore{nextID: 1}
}

// List returns a copy of all events in insertion order.
func (s *AccessLogStore) List(_ context.Context) ([]types.AccessEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.AccessEvent, len(s.events))
	copy(out, s.events)
	return out, nil
}

func (s *AccessLogStore) Append(_ context.Context, in types.AccessEventInput) (types.AccessEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(in), nil
}

func (s *AccessLogStore) AppendBatch(_ context.Context, ins []types.AccessEventInput) ([]types.AccessEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.AccessEvent, 0, len(ins))
	for _, in := range ins {
		out = append(out, s.appendLocked(in))
	}
	return out, nil
}

func (s *AccessLogStore) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events), nil
}

// appendLocked must be called with s.mu held.
func (s *AccessLogStore) appendLocked(in types.AccessEventInput) types.AccessEvent {
	ev := types.AccessEvent{
		ID:         s.nextID,
		Date:       in.Date,
		Time:       in.Time,
		AccessType: in.AccessType,
	}
	s.nextID++
	s.events = append(s.events, ev)
	return ev
}
