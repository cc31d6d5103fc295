package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/BrandonDHaskell/doorlog/internal/doorlog/store"
	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
)

type DoorStateStore struct {
	mu    sync.RWMutex
	state types.DoorState
}

func NewDoorStateStore() *DoorStateStore {
	return &DoorStateStore{state: types.DoorLocked}
}

func (s *DoorStateStore) State(_ context.Context) (types.DoorState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, nil
}

func (s *DoorStateStore) SetState(_ context.Context, st types.DoorState) error {
	if !st.Valid() {
		return fmt.Errorf("%w: %q", store.ErrInvalidDoorState, st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	return nil
}
