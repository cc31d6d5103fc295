package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

const accessEventsCounter = "access_events"

// reserveIDs advances the named counter by n and returns the first id of
// the reserved range.  Must be called inside the transaction that inserts
// the rows using those ids.
func reserveIDs(ctx context.Context, tx *sql.Tx, name string, n int) (int64, error) {
	var last int64
	if err := tx.QueryRowContext(ctx, `
SELECT last_value FROM counters WHERE name = ?;
`, name).Scan(&last); err != nil {
		return 0, fmt.Errorf("reserveIDs read %s: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE counters SET last_value = ? WHERE name = ?;
`, last+int64(n), name); err != nil {
		return 0, fmt.Errorf("reserveIDs update %s: %w", name, err)
	}

	return last + 1, nil
}
