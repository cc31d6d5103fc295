package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/BrandonDHaskell/doorlog/internal/db"
	"github.com/BrandonDHaskell/doorlog/internal/doorlog/types"
)

type AccessLogStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAccessLogStore(db *sql.DB, writer *dbpkg.Worker) *AccessLogStore {
	return &AccessLogStore{db: db, writer: writer}
}

func (s *AccessLogStore) List(ctx context.Context) ([]types.AccessEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, date, time, access_type
FROM access_events
ORDER BY id;
`)
	if err != nil {
		return nil, fmt.Errorf("List query: %w", err)
	}
	defer rows.Close()

	out := make([]types.AccessEvent, 0)
	for rows.Next() {
		var ev types.AccessEvent
		if err := rows.Scan(&ev.ID, &ev.Date, &ev.Time, &ev.AccessType); err != nil {
			return nil, fmt.Errorf("List scan: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List rows: %w", err)
	}
	return out, nil
}

func (s *AccessLogStore) Append(ctx context.Context, in types.AccessEventInput) (types.AccessEvent, error) {
	evs, err := s.AppendBatch(ctx, []types.AccessEventInput{in})
	if err != nil {
		return types.AccessEvent{}, err
	}
	return evs[0], nil
}

func (s *AccessLogStore) AppendBatch(ctx context.Context, ins []types.AccessEventInput) ([]types.AccessEvent, error) {
	out := make([]types.AccessEvent, 0, len(ins))
	if len(ins) == 0 {
		return out, nil
	}

	nowMs := time.Now().UTC().UnixMilli()

	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		first, err := reserveIDs(ctx, tx, accessEventsCounter, len(ins))
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO access_events(id, date, time, access_type, created_at_ms)
VALUES (?, ?, ?, ?, ?);
`)
		if err != nil {
			return fmt.Errorf("AppendBatch prepare: %w", err)
		}
		defer stmt.Close()

		for i, in := range ins {
			ev := types.AccessEvent{
				ID:         first + int64(i),
				Date:       in.Date,
				Time:       in.Time,
				AccessType: in.AccessType,
			}
			if _, err := stmt.ExecContext(ctx, ev.ID, ev.Date, ev.Time, ev.AccessType, nowMs); err != nil {
				return fmt.Errorf("AppendBatch insert id=%d: %w", ev.ID, err)
			}
			out = append(out, ev)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AccessLogStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM access_events;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("Len: %w", err)
	}
	return n, nil
}
