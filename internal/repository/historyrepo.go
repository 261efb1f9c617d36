package repository

import (
	"context"

	"github.com/trackops/assetkeeper/internal/model"
)

// HistoryRepository is the append-only audit ledger. Entries are never
// updated or deleted.
type HistoryRepository interface {
	// Append stores one history entry.
	Append(ctx context.Context, e *model.HistoryEntry) error

	// ListByAssetTag returns all entries for an asset, newest first.
	ListByAssetTag(ctx context.Context, tag string) ([]model.HistoryEntry, error)
}
