package service

import (
	"context"

	"github.com/trackops/assetkeeper/internal/errs"
	"github.com/trackops/assetkeeper/internal/model"
)

// ApplyUpdate merges a sparse edit onto an asset: nil fields were not
// supplied and stay untouched. Each supplied field that differs from the
// current value is tracked first, then overwritten. Status changes through
// this path are administrative edits, stored as-is after enum validation;
// guarded transitions go through the dedicated engine operations.
func (s *AssetService) ApplyUpdate(ctx context.Context, tag string, upd model.AssetUpdate, actor string) (*model.Asset, error) {
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, errs.Validationf("unknown status %q", *upd.Status)
	}
	if upd.SerialNumber != nil && *upd.SerialNumber == "" {
		return nil, errs.Validationf("serial number must not be empty")
	}
	if upd.LocationID != nil {
		if _, err := s.dir.GetLocation(ctx, *upd.LocationID); err != nil {
			return nil, err
		}
	}
	if upd.SiteID != nil {
		if _, err := s.dir.GetSite(ctx, *upd.SiteID); err != nil {
			return nil, err
		}
	}
	if upd.AssignedUserID != nil {
		if _, err := s.dir.GetUser(ctx, *upd.AssignedUserID); err != nil {
			return nil, err
		}
	}

	a, err := s.assets.GetByTag(ctx, tag)
	if err != nil {
		return nil, err
	}

	// The merged window must stay both-or-neither with start <= end.
	from, until := a.ReservedFrom, a.ReservedUntil
	if upd.ReservedFrom != nil {
		from = upd.ReservedFrom
	}
	if upd.ReservedUntil != nil {
		until = upd.ReservedUntil
	}
	if (from == nil) != (until == nil) {
		return nil, errs.Validationf("reservation dates must be set together")
	}
	if from != nil && from.After(*until) {
		return nil, errs.Validationf("reservation start must not be after end")
	}

	// Fixed merge order; history for a single edit always comes out in this
	// sequence.
	type step struct {
		field    string
		supplied bool
		old, new string
		apply    func()
	}
	steps := []step{
		{FieldName, upd.Name != nil, StrValue(a.Name), strPtrValue(upd.Name),
			func() { a.Name = *upd.Name }},
		{FieldDescription, upd.Description != nil, StrValue(a.Description), strPtrValue(upd.Description),
			func() { a.Description = *upd.Description }},
		{FieldSerialNumber, upd.SerialNumber != nil, StrValue(a.SerialNumber), strPtrValue(upd.SerialNumber),
			func() { a.SerialNumber = *upd.SerialNumber }},
		{FieldPurchaseDate, upd.PurchaseDate != nil, DateValue(a.PurchaseDate), DateValue(upd.PurchaseDate),
			func() { a.PurchaseDate = upd.PurchaseDate }},
		{FieldPurchaseSource, upd.PurchaseSource != nil, StrValue(a.PurchaseSource), strPtrValue(upd.PurchaseSource),
			func() { a.PurchaseSource = *upd.PurchaseSource }},
		{FieldStatus, upd.Status != nil, a.Status.String(), statusPtrValue(upd.Status),
			func() { a.Status = *upd.Status }},
		{FieldBrand, upd.Brand != nil, StrValue(a.Brand), strPtrValue(upd.Brand),
			func() { a.Brand = *upd.Brand }},
		{FieldModel, upd.Model != nil, StrValue(a.Model), strPtrValue(upd.Model),
			func() { a.Model = *upd.Model }},
		{FieldType, upd.Type != nil, StrValue(a.Type), strPtrValue(upd.Type),
			func() { a.Type = *upd.Type }},
		{FieldDepartment, upd.Department != nil, StrValue(a.Department), strPtrValue(upd.Department),
			func() { a.Department = *upd.Department }},
		{FieldCost, upd.Cost != nil, StrValue(a.Cost), strPtrValue(upd.Cost),
			func() { a.Cost = *upd.Cost }},
		{FieldLocation, upd.LocationID != nil, IDValue(a.LocationID), IDValue(upd.LocationID),
			func() { a.LocationID = upd.LocationID }},
		{FieldSite, upd.SiteID != nil, IDValue(a.SiteID), IDValue(upd.SiteID),
			func() { a.SiteID = upd.SiteID }},
		{FieldAssignedUser, upd.AssignedUserID != nil, IDValue(a.AssignedUserID), IDValue(upd.AssignedUserID),
			func() { a.AssignedUserID = upd.AssignedUserID }},
		{FieldReservedFrom, upd.ReservedFrom != nil, DateValue(a.ReservedFrom), DateValue(upd.ReservedFrom),
			func() { a.ReservedFrom = upd.ReservedFrom }},
		{FieldReservedUntil, upd.ReservedUntil != nil, DateValue(a.ReservedUntil), DateValue(upd.ReservedUntil),
			func() { a.ReservedUntil = upd.ReservedUntil }},
		{FieldStatusNote, upd.StatusNote != nil, StrValue(a.StatusNote), strPtrValue(upd.StatusNote),
			func() { a.StatusNote = *upd.StatusNote }},
	}

	dirty := false
	for _, st := range steps {
		if !st.supplied || st.old == st.new {
			continue
		}
		if err := s.tracker.Record(ctx, a.Tag, st.field, st.old, st.new, actor); err != nil {
			return nil, err
		}
		st.apply()
		dirty = true
	}
	if !dirty {
		return a, nil
	}
	return s.assets.Save(ctx, a)
}

func strPtrValue(s *string) string {
	if s == nil {
		return NullValue
	}
	return StrValue(*s)
}

func statusPtrValue(s *model.Status) string {
	if s == nil {
		return NullValue
	}
	return s.String()
}
