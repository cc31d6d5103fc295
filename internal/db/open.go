package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Config struct {
	// Name identifies the in-memory database.  Connections opened with the
	// same name share one database; an empty name gets a random one.
	Name string
}

// Open opens a private in-memory SQLite database and applies migrations.
// The database lives only as long as the returned *sql.DB; nothing is
// written to disk.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.Name == "" {
		cfg.Name = "doorlog_" + uuid.NewString()
	}

	// cache=shared keeps the database alive for as long as one connection
	// in the pool is open.
	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		cfg.Name,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	// Single connection: the in-memory database must never lose its last
	// connection, and SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
