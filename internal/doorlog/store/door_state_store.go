package store

import (
	"context"

	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
)

// DoorStateStore holds the single lock state of the controlled door.
// A fresh store reports types.DoorLocked.
type DoorStateStore interface {
	State(ctx context.Context) (types.DoorState, error)
	SetState(ctx context.Context, s types.DoorState) error
}
