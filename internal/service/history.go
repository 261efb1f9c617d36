package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/trackops/assetkeeper/internal/model"
	"github.com/trackops/assetkeeper/internal/repository"
)

// NullValue is the serialization of an absent attribute value in the audit
// ledger. Empty strings and nil references both store as this literal.
const NullValue = "NULL"

// Attribute names used in history entries. These are the engine's audit
// vocabulary, stable across schema changes.
const (
	FieldName           = "name"
	FieldDescription    = "description"
	FieldSerialNumber   = "serialNumber"
	FieldPurchaseDate   = "purchaseDate"
	FieldPurchaseSource = "purchaseSource"
	FieldStatus         = "status"
	FieldStatusNote     = "statusNote"
	FieldBrand          = "brand"
	FieldModel          = "model"
	FieldType           = "type"
	FieldDepartment     = "department"
	FieldCost           = "cost"
	FieldLocation       = "location"
	FieldSite           = "site"
	FieldAssignedUser   = "assignedUser"
	FieldReservedFrom   = "reservationStart"
	FieldReservedUntil  = "reservationEnd"
)

// ChangeTracker appends field-level audit entries to the ledger. It carries
// no validation logic: equality check plus one append per attribute, never
// batched, so a partial failure cannot lose already-recorded deltas.
type ChangeTracker struct {
	ledger repository.HistoryRepository
	clock  Clock
}

// NewChangeTracker constructs a tracker over the given ledger.
func NewChangeTracker(ledger repository.HistoryRepository) *ChangeTracker {
	return &ChangeTracker{ledger: ledger, clock: realClock{}}
}

// Changed appends exactly one entry if and only if old != new.
func (t *ChangeTracker) Changed(ctx context.Context, tag, field, old, new string, actor string) error {
	if old == new {
		return nil
	}
	return t.Record(ctx, tag, field, old, new, actor)
}

// Record appends an entry unconditionally. Used by the reset path, which
// logs cleared fields even when they were already empty. Ids are time-ordered
// (v7) so they break ties between entries sharing one timestamp.
func (t *ChangeTracker) Record(ctx context.Context, tag, field, old, new string, actor string) error {
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	return t.ledger.Append(ctx, &model.HistoryEntry{
		ID:        id,
		AssetTag:  tag,
		Field:     field,
		Old:       old,
		New:       new,
		Actor:     actor,
		CreatedAt: t.clock.Now().UTC(),
	})
}

// --- value serialization ---

// StrValue serializes a free-text attribute; empty counts as absent.
func StrValue(s string) string {
	if s == "" {
		return NullValue
	}
	return s
}

// IDValue serializes an entity reference.
func IDValue(id *uuid.UUID) string {
	if id == nil {
		return NullValue
	}
	return id.String()
}

// DateValue serializes a date attribute as YYYY-MM-DD.
func DateValue(t *time.Time) string {
	if t == nil {
		return NullValue
	}
	return t.Format("2006-01-02")
}
