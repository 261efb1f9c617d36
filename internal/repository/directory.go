package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/trackops/assetkeeper/internal/model"
)

// Directory resolves user/site/location references. Consumed read-only by
// the reservation and checkout paths; missing ids yield errs.ErrNotFound.
type Directory interface {
	// GetUser loads a user by id.
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetSite loads a site by id.
	GetSite(ctx context.Context, id uuid.UUID) (*model.Site, error)
	// GetLocation loads a location by id.
	GetLocation(ctx context.Context, id uuid.UUID) (*model.Location, error)
}
