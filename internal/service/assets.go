// Package service implements the asset lifecycle core: validated status
// transitions, reservation arbitration, and diff-based audit history.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/trackops/assetkeeper/internal/errs"
	"github.com/trackops/assetkeeper/internal/model"
	"github.com/trackops/assetkeeper/internal/repository"
)

// Clock supplies the current time; swapped for a fixed clock in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// AssetService is the status transition engine. Every state change goes
// through exactly one of its methods: validate first, then mutate the
// in-memory snapshot, diff via the ChangeTracker, and persist once.
type AssetService struct {
	assets  repository.AssetRepository
	dir     repository.Directory
	tracker *ChangeTracker
	arbiter *ReservationArbiter
	clock   Clock
}

// NewAssetService wires the engine with its store, directory and tracker.
func NewAssetService(assets repository.AssetRepository, dir repository.Directory, tracker *ChangeTracker) *AssetService {
	return &AssetService{
		assets:  assets,
		dir:     dir,
		tracker: tracker,
		arbiter: NewReservationArbiter(dir),
		clock:   realClock{},
	}
}

// Create validates and persists a new asset. The tag is assigned by the
// repository inside the insert transaction, so no caller ever observes an
// asset without one.
func (s *AssetService) Create(ctx context.Context, in model.NewAsset, actor string) (*model.Asset, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errs.Validationf("name is required")
	}
	if strings.TrimSpace(in.SerialNumber) == "" {
		return nil, errs.Validationf("serial number is required")
	}
	if actor == "" {
		return nil, errs.Validationf("actor is required")
	}
	status := in.Status
	if status == "" {
		status = model.StatusAvailable
	}
	if !status.Valid() {
		return nil, errs.Validationf("unknown status %q", in.Status)
	}

	a := &model.Asset{
		SerialNumber:   strings.TrimSpace(in.SerialNumber),
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		Brand:          in.Brand,
		Model:          in.Model,
		Type:           in.Type,
		Department:     in.Department,
		Cost:           in.Cost,
		Status:         status,
		PurchaseDate:   in.PurchaseDate,
		PurchaseSource: in.PurchaseSource,
		CreatedBy:      actor,
		CreatedAt:      s.clock.Now().UTC(),
	}
	return s.assets.Create(ctx, a)
}

// GetByTag loads a single asset.
func (s *AssetService) GetByTag(ctx context.Context, tag string) (*model.Asset, error) {
	if tag == "" {
		return nil, errs.Validationf("tag is required")
	}
	return s.assets.GetByTag(ctx, tag)
}

// GetBySerial loads a single asset by serial number.
func (s *AssetService) GetBySerial(ctx context.Context, serial string) (*model.Asset, error) {
	if serial == "" {
		return nil, errs.Validationf("serial number is required")
	}
	return s.assets.GetBySerial(ctx, serial)
}

// List returns all non-deleted assets.
func (s *AssetService) List(ctx context.Context) ([]model.Asset, error) {
	return s.assets.List(ctx)
}

// History returns the audit trail for an asset, newest first.
func (s *AssetService) History(ctx context.Context, tag string) ([]model.HistoryEntry, error) {
	if tag == "" {
		return nil, errs.Validationf("tag is required")
	}
	if _, err := s.assets.GetByTag(ctx, tag); err != nil {
		return nil, err
	}
	return s.tracker.ledger.ListByAssetTag(ctx, tag)
}
