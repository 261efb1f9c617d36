package postgres

import (
	"context"

	"github.com/trackops/assetkeeper/internal/model"
)

// HistoryRepo implements the append-only audit ledger using PostgreSQL.
// There is deliberately no update or delete.
type HistoryRepo struct{ db *DB }

// NewHistoryRepo constructs a history repository.
func NewHistoryRepo(db *DB) *HistoryRepo { return &HistoryRepo{db: db} }

// Append stores one history entry.
func (r *HistoryRepo) Append(ctx context.Context, e *model.HistoryEntry) error {
	const ins = `INSERT INTO asset_history (id, asset_tag, field, old_value, new_value, actor, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.db.Pool.Exec(ctx, ins, e.ID, e.AssetTag, e.Field, e.Old, e.New, e.Actor, e.CreatedAt)
	return err
}

// ListByAssetTag returns the asset's entries newest first. The id is the
// tiebreaker for entries sharing a timestamp within one transition.
func (r *HistoryRepo) ListByAssetTag(ctx context.Context, tag string) ([]model.HistoryEntry, error) {
	const q = `SELECT id, asset_tag, field, old_value, new_value, actor, created_at
FROM asset_history WHERE asset_tag=$1
ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Pool.Query(ctx, q, tag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.ID, &e.AssetTag, &e.Field, &e.Old, &e.New, &e.Actor, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
