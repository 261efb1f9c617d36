package service

import (
	"context"

	"github.com/trackops/assetkeeper/internal/errs"
	"github.com/trackops/assetkeeper/internal/model"
	"github.com/trackops/assetkeeper/internal/repository"
)

// ReservationArbiter enforces the user-vs-site exclusivity rule and the
// reservation preconditions. It resolves the referenced entities and hands
// them back for the engine to apply; it never mutates the asset itself.
type ReservationArbiter struct {
	dir repository.Directory
}

// NewReservationArbiter constructs an arbiter over the given directory.
func NewReservationArbiter(dir repository.Directory) *ReservationArbiter {
	return &ReservationArbiter{dir: dir}
}

// Resolve validates req against the asset's current state and resolves the
// reservation target. Exactly one of user or site must be requested; a site
// target requires a location in the same request.
func (r *ReservationArbiter) Resolve(ctx context.Context, a *model.Asset, req model.ReserveRequest) (*model.ReservedTarget, error) {
	switch a.Status {
	case model.StatusReserved:
		return nil, errs.Conflictf("asset %s is already reserved", a.Tag)
	case model.StatusLost:
		return nil, errs.Conflictf("asset %s is lost", a.Tag)
	case model.StatusCheckedOut:
		return nil, errs.Conflictf("asset %s is checked out", a.Tag)
	case model.StatusDisposed, model.StatusDeleted:
		return nil, errs.Conflictf("asset %s is %s", a.Tag, a.Status)
	}
	if a.Assigned() {
		return nil, errs.Conflictf("asset %s is assigned to a user", a.Tag)
	}

	if req.UserID != nil && req.SiteID != nil {
		return nil, errs.Validationf("reservation target must be a user or a site, not both")
	}
	if req.UserID == nil && req.SiteID == nil {
		return nil, errs.Validationf("reservation target is required")
	}
	if req.SiteID != nil && req.LocationID == nil {
		return nil, errs.Validationf("a site reservation requires a location")
	}
	if req.From == nil || req.Until == nil {
		return nil, errs.Validationf("both reservation dates are required")
	}
	if req.From.After(*req.Until) {
		return nil, errs.Validationf("reservation start must not be after end")
	}
	if req.Note == "" {
		return nil, errs.Validationf("a reservation note is required")
	}

	target := &model.ReservedTarget{}
	if req.UserID != nil {
		u, err := r.dir.GetUser(ctx, *req.UserID)
		if err != nil {
			return nil, err
		}
		target.User = u
		return target, nil
	}

	site, err := r.dir.GetSite(ctx, *req.SiteID)
	if err != nil {
		return nil, err
	}
	loc, err := r.dir.GetLocation(ctx, *req.LocationID)
	if err != nil {
		return nil, err
	}
	if loc.SiteID != site.ID {
		return nil, errs.Validationf("location %s does not belong to site %s", loc.ID, site.ID)
	}
	target.Site = site
	target.Location = loc
	return target, nil
}
