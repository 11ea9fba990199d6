package postgresql

import (
	"context"

	"github.com/gigline/gigline-backend-go/internal/pkg/database"
)

// GetQuerier returns either the in-flight transaction or the pool.
// Used in repositories to support both transactional and non-transactional operations.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	return database.QuerierFrom(ctx, db)
}

// lockShift serializes concurrent read-modify-write operations for a single
// shift. The advisory lock is transaction-scoped and released on commit or
// rollback.
func lockShift(ctx context.Context, db *database.DB, shiftID string) error {
	q := GetQuerier(ctx, db)
	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, shiftID)
	return err
}
