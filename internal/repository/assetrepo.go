// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/trackops/assetkeeper/internal/model"
)

// AssetRepository persists assets keyed by tag. Tag and serial uniqueness
// among non-deleted assets is enforced at this layer as a backstop.
type AssetRepository interface {
	// Create inserts a new asset and assigns its tag from the tag sequence
	// before the asset is visible to any caller.
	Create(ctx context.Context, a *model.Asset) (*model.Asset, error)

	// GetByTag loads an asset by its tag.
	GetByTag(ctx context.Context, tag string) (*model.Asset, error)

	// GetBySerial loads an asset by its serial number.
	GetBySerial(ctx context.Context, serial string) (*model.Asset, error)

	// Save persists a mutated asset with an optimistic version check (ver++).
	// A stale Ver yields errs.ErrConflict.
	Save(ctx context.Context, a *model.Asset) (*model.Asset, error)

	// List returns non-deleted assets ordered by tag.
	List(ctx context.Context) ([]model.Asset, error)
}
