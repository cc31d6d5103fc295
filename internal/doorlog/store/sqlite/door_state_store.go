package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/BrandonDHaskell/doorlog/internal/db"
	"github.com/BrandonDHaskell/doorlog/internal/doorlog/store"
	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
)

// DoorStateStore keeps the lock state in the single door_state row seeded
// by the initial migration.
type DoorStateStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewDoorStateStore(db *sql.DB, writer *dbpkg.Worker) *DoorStateStore {
	return &DoorStateStore{db: db, writer: writer}
}

func (s *DoorStateStore) State(ctx context.Context) (types.DoorState, error) {
	var st string
	if err := s.db.QueryRowContext(ctx, `SELECT state FROM door_state WHERE id = 1;`).Scan(&st); err != nil {
		return "", fmt.Errorf("State query: %w", err)
	}
	return types.DoorState(st), nil
}

func (s *DoorStateStore) SetState(ctx context.Context, st types.DoorState) error {
	if !st.Valid() {
		return fmt.Errorf("%w: %q", store.ErrInvalidDoorState, st)
	}
	ms := time.Now().UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
UPDATE door_state
SET state = ?,
    updated_at_ms = ?
WHERE id = 1;
`, string(st), ms); err != nil {
			return fmt.Errorf("SetState update: %w", err)
		}
		return nil
	})
}
