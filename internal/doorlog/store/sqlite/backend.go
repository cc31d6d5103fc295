package sqlite

import (
	"context"
	"database/sql"

	dbpkg "github.com/BrandonDHaskell/doorlog/internal/db"
)

// Backend bundles the in-memory SQLite database with the stores built on it.
type Backend struct {
	DB        *sql.DB
	Writer    *dbpkg.Worker
	AccessLog *AccessLogStore
	Door      *DoorStateStore
}

func OpenBackend(ctx context.Context) (*Backend, error) {
	conn, err := dbpkg.Open(ctx, dbpkg.Config{})
	if err != nil {
		return nil, err
	}
	w := dbpkg.NewWorker(conn)
	return &Backend{
		DB:        conn,
		Writer:    w,
		AccessLog: NewAccessLogStore(conn, w),
		Door:      NewDoorStateStore(conn, w),
	}, nil
}

// Close drains the writer and closes the database.  Every event is lost.
func (b *Backend) Close() error {
	b.Writer.Close()
	return b.DB.Close()
}
