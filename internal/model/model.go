// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Asset is a tracked physical unit (hardware, SIM card, equipment).
// Tag is immutable once generated; Ver is an optimistic concurrency counter
// maintained by the repository.
type Asset struct {
	Tag          string // unique among non-deleted assets, "A-%06d"
	SerialNumber string // unique among non-deleted assets
	Name         string
	Description  string
	Brand        string
	Model        string
	Type         string
	Department   string
	Cost         string // free-form, stored as entered

	Status     Status
	StatusNote string

	PurchaseDate   *time.Time
	PurchaseSource string

	AssignedUserID *uuid.UUID
	SiteID         *uuid.UUID
	LocationID     *uuid.UUID

	// Reservation window: both set or both nil.
	ReservedFrom  *time.Time
	ReservedUntil *time.Time

	// Optional hierarchy: tag of the parent asset.
	ParentTag *string

	CreatedBy string
	CreatedAt time.Time
	Ver       int64
}

// Assigned reports whether the asset is currently held by a user.
func (a *Asset) Assigned() bool { return a.AssignedUserID != nil }

// HistoryEntry is a single immutable audit record: one changed attribute of
// one asset. Old/New hold the serialized values with "NULL" standing in for
// absent ones (see service.NullValue).
type HistoryEntry struct {
	ID        uuid.UUID
	AssetTag  string
	Field     string
	Old       string
	New       string
	Actor     string
	CreatedAt time.Time
}

// User is a directory entry assets can be checked out or reserved to.
type User struct {
	ID       uuid.UUID
	Username string
	FullName string
}

// Site is a physical site assets can be reserved for.
type Site struct {
	ID   uuid.UUID
	Name string
}

// Location is a place within a site.
type Location struct {
	ID     uuid.UUID
	SiteID uuid.UUID
	Name   string
}

// ReserveRequest is a reservation intent: exactly one of UserID/SiteID must
// be set; a SiteID requires a LocationID in the same request.
type ReserveRequest struct {
	UserID     *uuid.UUID
	SiteID     *uuid.UUID
	LocationID *uuid.UUID
	From       *time.Time
	Until      *time.Time
	Note       string
}

// ReservedTarget is the arbiter's resolved outcome, ready to apply.
type ReservedTarget struct {
	User     *User
	Site     *Site
	Location *Location
}

// NewAsset is the request to mint an asset. The tag is assigned by the
// repository before the asset is visible to any caller.
type NewAsset struct {
	SerialNumber   string
	Name           string
	Description    string
	Brand          string
	Model          string
	Type           string
	Department     string
	Cost           string
	Status         Status // zero value means StatusAvailable
	PurchaseDate   *time.Time
	PurchaseSource string
}

// AssetUpdate is a sparse edit: nil fields were not supplied and stay
// untouched (merge, not replace).
type AssetUpdate struct {
	Name           *string
	Description    *string
	SerialNumber   *string
	PurchaseDate   *time.Time
	PurchaseSource *string
	Status         *Status
	Brand          *string
	Model          *string
	Type           *string
	Department     *string
	Cost           *string
	LocationID     *uuid.UUID
	SiteID         *uuid.UUID
	AssignedUserID *uuid.UUID
	ReservedFrom   *time.Time
	ReservedUntil  *time.Time
	StatusNote     *string
}
