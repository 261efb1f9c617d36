package limiter

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PG is a PostgreSQL-backed limiter with a fixed window per actor.
type PG struct {
	pool      pgxQuerier
	window    time.Duration
	maxWrites int
}

type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPG constructs a PostgreSQL-backed limiter.
func NewPG(pool *pgxpool.Pool, window time.Duration, maxWrites int) *PG {
	return &PG{pool: pool, window: window, maxWrites: maxWrites}
}

// NewPGWithQuerier constructs a PostgreSQL-backed limiter over any querier.
func NewPGWithQuerier(q pgxQuerier, window time.Duration, maxWrites int) *PG {
	return &PG{pool: q, window: window, maxWrites: maxWrites}
}

// Allow counts one write for the actor inside the current window. The count
// and the window start live in a single row per actor; an expired window
// resets both in the same upsert.
func (l *PG) Allow(ctx context.Context, actor string) (bool, time.Duration, error) {
	const q = `
INSERT INTO write_limiter (actor, op_count, window_start)
VALUES ($1, 1, now())
ON CONFLICT (actor) DO UPDATE
SET
  op_count = CASE WHEN now() - write_limiter.window_start > $2::interval THEN 1 ELSE write_limiter.op_count + 1 END,
  window_start = CASE WHEN now() - write_limiter.window_start > $2::interval THEN now() ELSE write_limiter.window_start END
RETURNING op_count, window_start`
	var count int
	var windowStart time.Time
	if err := l.pool.QueryRow(ctx, q, actor, l.window).Scan(&count, &windowStart); err != nil {
		return false, 0, err
	}
	if count > l.maxWrites {
		return false, time.Until(windowStart.Add(l.window)), nil
	}
	return true, 0, nil
}
