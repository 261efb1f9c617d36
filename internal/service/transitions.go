package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/trackops/assetkeeper/internal/errs"
	"github.com/trackops/assetkeeper/internal/model"
)

// StatusChange carries the parameters of a generic UpdateStatus request.
// Which fields are required depends on the target status.
type StatusChange struct {
	Note           string
	MarkAsRepaired bool
	ReservedFrom   *time.Time
	ReservedUntil  *time.Time
	SiteID         *uuid.UUID
	LocationID     *uuid.UUID
	Department     string
}

// Dispose marks an asset DISPOSED. Fails with a conflict while the asset is
// assigned to a user or already disposed. History is written after the
// mutation; MarkAsLost writes it before.
func (s *AssetService) Dispose(ctx context.Context, tag, note, actor string) (*model.Asset, error) {
	a, err := s.assets.GetByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	if a.Assigned() {
		return nil, errs.Conflictf("asset %s is assigned to a user", a.Tag)
	}
	if a.Status == model.StatusDisposed {
		return nil, errs.Conflictf("asset %s is already disposed", a.Tag)
	}

	oldStatus, oldNote := a.Status, a.StatusNote
	a.Status = model.StatusDisposed
	a.StatusNote = note

	if err := s.tracker.Changed(ctx, a.Tag, FieldStatus, oldStatus.String(), a.Status.String(), actor); err != nil {
		return nil, err
	}
	if err := s.tracker.Changed(ctx, a.Tag, FieldStatusNote, StrValue(oldNote), StrValue(note), actor); err != nil {
		return nil, err
	}
	return s.assets.Save(ctx, a)
}

// MarkAsLost marks an asset LOST. History is written before the snapshot is
// mutated, unlike Dispose.
func (s *AssetService) MarkAsLost(ctx context.Context, tag, note, actor string) (*model.Asset, error) {
	a, err := s.assets.GetByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	if a.Assigned() {
		return nil, errs.Conflictf("asset %s is assigned to a user", a.Tag)
	}
	if a.Status == model.StatusLost {
		return nil, errs.Conflictf("asset %s is already lost", a.Tag)
	}

	if err := s.tracker.Changed(ctx, a.Tag, FieldStatus, a.Status.String(), model.StatusLost.String(), actor); err != nil {
		return nil, err
	}
	if err := s.tracker.Changed(ctx, a.Tag, FieldStatusNote, StrValue(a.StatusNote), StrValue(note), actor); err != nil {
		return nil, err
	}

	a.Status = model.StatusLost
	a.StatusNote = note
	return s.assets.Save(ctx, a)
}

// CheckOut hands an asset to a user, optionally relocating it. The asset must
// not already be assigned, and disposed/deleted assets accept no further
// assignment.
func (s *AssetService) CheckOut(ctx context.Context, tag string, userID uuid.UUID, siteID, locationID *uuid.UUID, department, note, actor string) (*model.Asset, error) {
	if userID == uuid.Nil {
		return nil, errs.Validationf("a user is required for checkout")
	}
	if note == "" {
		return nil, errs.Validationf("a checkout note is required")
	}

	a, err := s.assets.GetByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	if a.Assigned() {
		return nil, errs.Conflictf("asset %s is already assigned", a.Tag)
	}
	if a.Status == model.StatusDisposed || a.Status == model.StatusDeleted {
		return nil, errs.Conflictf("asset %s is %s", a.Tag, a.Status)
	}

	user, err := s.dir.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if siteID != nil {
		if _, err := s.dir.GetSite(ctx, *siteID); err != nil {
			return nil, err
		}
	}
	if locationID != nil {
		if _, err := s.dir.GetLocation(ctx, *locationID); err != nil {
			return nil, err
		}
	}

	oldUser := a.AssignedUserID
	oldStatus := a.Status
	oldLocation := a.LocationID
	oldDepartment := a.Department
	oldNote := a.StatusNote

	a.AssignedUserID = &user.ID
	a.Status = model.StatusCheckedOut
	if siteID != nil {
		a.SiteID = siteID
	}
	if locationID != nil {
		a.LocationID = locationID
	}
	if department != "" {
		a.Department = department
	}
	a.StatusNote = note

	for _, c := range []struct{ field, old, new string }{
		{FieldAssignedUser, IDValue(oldUser), IDValue(a.AssignedUserID)},
		{FieldStatus, oldStatus.String(), a.Status.String()},
		{FieldLocation, IDValue(oldLocation), IDValue(a.LocationID)},
		{FieldDepartment, StrValue(oldDepartment), StrValue(a.Department)},
		{FieldStatusNote, StrValue(oldNote), StrValue(a.StatusNote)},
	} {
		if err := s.tracker.Changed(ctx, a.Tag, c.field, c.old, c.new, actor); err != nil {
			return nil, err
		}
	}
	return s.assets.Save(ctx, a)
}

// CheckIn returns an assigned asset to the pool: clears the holder, sets the
// status back to AVAILABLE and records where it came to rest.
func (s *AssetService) CheckIn(ctx context.Context, tag string, siteID, locationID *uuid.UUID, department, note, actor string) (*model.Asset, error) {
	if note == "" {
		return nil, errs.Validationf("a check-in note is required")
	}

	a, err := s.assets.GetByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	if !a.Assigned() {
		return nil, errs.Validationf("asset %s has no assigned user", a.Tag)
	}

	if siteID != nil {
		if _, err := s.dir.GetSite(ctx, *siteID); err != nil {
			return nil, err
		}
	}
	if locationID != nil {
		if _, err := s.dir.GetLocation(ctx, *locationID); err != nil {
			return nil, err
		}
	}

	oldUser := a.AssignedUserID
	oldStatus := a.Status
	oldSite := a.SiteID
	oldLocation := a.LocationID
	oldDepartment := a.Department
	oldNote := a.StatusNote

	a.AssignedUserID = nil
	a.Status = model.StatusAvailable
	if siteID != nil {
		a.SiteID = siteID
	}
	if locationID != nil {
		a.LocationID = locationID
	}
	if department != "" {
		a.Department = department
	}
	a.StatusNote = note

	for _, c := range []struct{ field, old, new string }{
		{FieldAssignedUser, IDValue(oldUser), IDValue(a.AssignedUserID)},
		{FieldStatus, oldStatus.String(), a.Status.String()},
		{FieldSite, IDValue(oldSite), IDValue(a.SiteID)},
		{FieldLocation, IDValue(oldLocation), IDValue(a.LocationID)},
		{FieldDepartment, StrValue(oldDepartment), StrValue(a.Department)},
		{FieldStatusNote, StrValue(oldNote), StrValue(a.StatusNote)},
	} {
		if err := s.tracker.Changed(ctx, a.Tag, c.field, c.old, c.new, actor); err != nil {
			return nil, err
		}
	}
	return s.assets.Save(ctx, a)
}

// Reserve places a time-boxed hold on an asset for either a user or a
// site+location, mutually exclusive. Validation and target resolution is the
// arbiter's; applying the outcome is the engine's.
func (s *AssetService) Reserve(ctx context.Context, tag string, req model.ReserveRequest, actor string) (*model.Asset, error) {
	a, err := s.assets.GetByTag(ctx, tag)
	if err != nil {
		return nil, err
	}

	target, err := s.arbiter.Resolve(ctx, a, req)
	if err != nil {
		return nil, err
	}

	oldStatus := a.Status
	oldUser := a.AssignedUserID
	oldSite := a.SiteID
	oldLocation := a.LocationID
	oldFrom := a.ReservedFrom
	oldUntil := a.ReservedUntil
	oldNote := a.StatusNote

	a.Status = model.StatusReserved
	a.ReservedFrom = req.From
	a.ReservedUntil = req.Until
	a.StatusNote = req.Note
	if target.User != nil {
		a.AssignedUserID = &target.User.ID
	} else {
		a.SiteID = &target.Site.ID
		a.LocationID = &target.Location.ID
	}

	for _, c := range []struct{ field, old, new string }{
		{FieldStatus, oldStatus.String(), a.Status.String()},
		{FieldAssignedUser, IDValue(oldUser), IDValue(a.AssignedUserID)},
		{FieldSite, IDValue(oldSite), IDValue(a.SiteID)},
		{FieldLocation, IDValue(oldLocation), IDValue(a.LocationID)},
		{FieldReservedFrom, DateValue(oldFrom), DateValue(a.ReservedFrom)},
		{FieldReservedUntil, DateValue(oldUntil), DateValue(a.ReservedUntil)},
		{FieldStatusNote, StrValue(oldNote), StrValue(a.StatusNote)},
	} {
		if err := s.tracker.Changed(ctx, a.Tag, c.field, c.old, c.new, actor); err != nil {
			return nil, err
		}
	}
	return s.assets.Save(ctx, a)
}

// UpdateStatus is the generic transition entry point. It recognizes only
// IN_REPAIR, RESERVED and CHECKED_IN; everything else must use the dedicated
// operation (or does not exist).
func (s *AssetService) UpdateStatus(ctx context.Context, tag string, target model.Status, p StatusChange, actor string) (*model.Asset, error) {
	switch target {
	case model.StatusInRepair:
		return s.MarkInRepair(ctx, tag, p.Note, p.MarkAsRepaired, actor)
	case model.StatusReserved:
		return s.reserveDirect(ctx, tag, p, actor)
	case model.StatusCheckedIn:
		return s.CheckIn(ctx, tag, p.SiteID, p.LocationID, p.Department, p.Note, actor)
	default:
		return nil, errs.Validationf("unsupported target status %q", target)
	}
}

// reserveDirect is the simpler RESERVED variant behind UpdateStatus: it
// applies the reservation window without the arbiter's exclusivity checks,
// and is only admissible from AVAILABLE or CHECKED_IN.
func (s *AssetService) reserveDirect(ctx context.Context, tag string, p StatusChange, actor string) (*model.Asset, error) {
	if p.ReservedFrom == nil || p.ReservedUntil == nil {
		return nil, errs.Validationf("both reservation dates are required")
	}
	if p.ReservedFrom.After(*p.ReservedUntil) {
		return nil, errs.Validationf("reservation start must not be after end")
	}
	if p.Note == "" {
		return nil, errs.Validationf("a reservation note is required")
	}

	a, err := s.assets.GetByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	if a.Status != model.StatusAvailable && a.Status != model.StatusCheckedIn {
		return nil, errs.Validationf("cannot reserve asset %s from status %s", a.Tag, a.Status)
	}

	oldStatus := a.Status
	oldFrom := a.ReservedFrom
	oldUntil := a.ReservedUntil
	oldNote := a.StatusNote

	a.Status = model.StatusReserved
	a.ReservedFrom = p.ReservedFrom
	a.ReservedUntil = p.ReservedUntil
	a.StatusNote = p.Note

	for _, c := range []struct{ field, old, new string }{
		{FieldStatus, oldStatus.String(), a.Status.String()},
		{FieldReservedFrom, DateValue(oldFrom), DateValue(a.ReservedFrom)},
		{FieldReservedUntil, DateValue(oldUntil), DateValue(a.ReservedUntil)},
		{FieldStatusNote, StrValue(oldNote), StrValue(a.StatusNote)},
	} {
		if err := s.tracker.Changed(ctx, a.Tag, c.field, c.old, c.new, actor); err != nil {
			return nil, err
		}
	}
	return s.assets.Save(ctx, a)
}

// MarkInRepair toggles repair state. From IN_REPAIR with markAsRepaired it
// exits to CHECKED_OUT (still assigned) or AVAILABLE; from CHECKED_OUT or
// AVAILABLE it enters IN_REPAIR. A repair note is mandatory in all cases.
func (s *AssetService) MarkInRepair(ctx context.Context, tag, note string, markAsRepaired bool, actor string) (*model.Asset, error) {
	if note == "" {
		return nil, errs.Validationf("a repair note is required")
	}

	a, err := s.assets.GetByTag(ctx, tag)
	if err != nil {
		return nil, err
	}

	var next model.Status
	switch {
	case a.Status == model.StatusInRepair && markAsRepaired:
		next = model.StatusAvailable
		if a.Assigned() {
			next = model.StatusCheckedOut
		}
	case a.Status == model.StatusInRepair:
		return nil, errs.Validationf("asset %s is already in repair", a.Tag)
	case a.Status == model.StatusCheckedOut || a.Status == model.StatusAvailable:
		next = model.StatusInRepair
	default:
		return nil, errs.Validationf("cannot change repair state from status %s", a.Status)
	}

	oldStatus, oldNote := a.Status, a.StatusNote
	a.Status = next
	a.StatusNote = note

	if err := s.tracker.Changed(ctx, a.Tag, FieldStatus, oldStatus.String(), a.Status.String(), actor); err != nil {
		return nil, err
	}
	if err := s.tracker.Changed(ctx, a.Tag, FieldStatusNote, StrValue(oldNote), StrValue(note), actor); err != nil {
		return nil, err
	}
	return s.assets.Save(ctx, a)
}

// ResetStatus is the recovery override: unconditionally back to AVAILABLE
// with assignment and reservation window cleared. Every cleared field is
// logged even when it was already empty, so the trail shows a reset happened.
func (s *AssetService) ResetStatus(ctx context.Context, tag, note, actor string) (*model.Asset, error) {
	a, err := s.assets.GetByTag(ctx, tag)
	if err != nil {
		return nil, err
	}

	oldStatus := a.Status
	oldUser := a.AssignedUserID
	oldFrom := a.ReservedFrom
	oldUntil := a.ReservedUntil
	oldNote := a.StatusNote

	a.Status = model.StatusAvailable
	a.AssignedUserID = nil
	a.ReservedFrom = nil
	a.ReservedUntil = nil
	a.StatusNote = note

	for _, c := range []struct{ field, old, new string }{
		{FieldStatus, oldStatus.String(), a.Status.String()},
		{FieldAssignedUser, IDValue(oldUser), IDValue(nil)},
		{FieldReservedFrom, DateValue(oldFrom), DateValue(nil)},
		{FieldReservedUntil, DateValue(oldUntil), DateValue(nil)},
		{FieldStatusNote, StrValue(oldNote), StrValue(note)},
	} {
		if err := s.tracker.Record(ctx, a.Tag, c.field, c.old, c.new, actor); err != nil {
			return nil, err
		}
	}
	return s.assets.Save(ctx, a)
}

// SoftDelete marks the asset DELETED; the row is retained. Assigned or
// reserved assets cannot be deleted.
func (s *AssetService) SoftDelete(ctx context.Context, tag, actor string) (*model.Asset, error) {
	a, err := s.assets.GetByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	if a.Assigned() {
		return nil, errs.Validationf("asset %s is assigned to a user", a.Tag)
	}
	if a.Status == model.StatusReserved {
		return nil, errs.Validationf("asset %s is reserved", a.Tag)
	}

	oldStatus := a.Status
	a.Status = model.StatusDeleted
	if err := s.tracker.Changed(ctx, a.Tag, FieldStatus, oldStatus.String(), a.Status.String(), actor); err != nil {
		return nil, err
	}
	return s.assets.Save(ctx, a)
}
