package store

import (
	"context"

	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
)

// AccessLogStore is the append-only access-event log.  Implementations
// assign ids from an explicit counter: the first event of a fresh store
// gets id 1 and every append takes the next value, with no gaps.
//
// Inputs are assumed valid; validation belongs to the service layer.
type AccessLogStore interface {
	List(ctx context.Context) ([]types.AccessEvent, error)
	Append(ctx context.Context, in types.AccessEventInput) (types.AccessEvent, error)
	// AppendBatch appends all inputs with consecutive ids in one critical
	// section.  Either every input is appended or none is.  Once the append
	// has started it runs to completion even if ctx ends, and the returned
	// error reflects whether it was stored.
	AppendBatch(ctx context.Context, ins []types.AccessEventInput) ([]types.AccessEvent, error)
	// Len is the number of stored events.
	Len(ctx context.Context) (int, error)
}
