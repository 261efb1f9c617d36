package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"

	"github.com/trackops/assetkeeper/internal/errs"
	"github.com/trackops/assetkeeper/internal/model"
)

// AssetRepo implements AssetRepository using PostgreSQL.
type AssetRepo struct{ db *DB }

// NewAssetRepo constructs an asset repository.
func NewAssetRepo(db *DB) *AssetRepo { return &AssetRepo{db: db} }

const assetColumns = `tag, serial_number, name, description, brand, model, type, department, cost,
status, status_note, purchase_date, purchase_source,
assigned_user_id, site_id, location_id, reserved_from, reserved_until,
parent_tag, created_by, created_at, ver`

func scanAsset(row pgx.Row) (*model.Asset, error) {
	var a model.Asset
	err := row.Scan(
		&a.Tag, &a.SerialNumber, &a.Name, &a.Description, &a.Brand, &a.Model, &a.Type, &a.Department, &a.Cost,
		&a.Status, &a.StatusNote, &a.PurchaseDate, &a.PurchaseSource,
		&a.AssignedUserID, &a.SiteID, &a.LocationID, &a.ReservedFrom, &a.ReservedUntil,
		&a.ParentTag, &a.CreatedBy, &a.CreatedAt, &a.Ver,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts the asset under a provisional tag and finalizes it to the
// next sequential tag before commit, so no caller ever sees a tagless asset.
// Serial uniqueness among non-deleted assets is enforced by a partial index.
func (r *AssetRepo) Create(ctx context.Context, a *model.Asset) (created *model.Asset, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	tmpTag := "TMP-" + ulid.Make().String()

	const ins = `INSERT INTO assets
(tag, serial_number, name, description, brand, model, type, department, cost,
 status, status_note, purchase_date, purchase_source, created_by, created_at, ver)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,1)`
	if _, err = tx.Exec(ctx, ins,
		tmpTag, a.SerialNumber, a.Name, a.Description, a.Brand, a.Model, a.Type, a.Department, a.Cost,
		a.Status, a.StatusNote, a.PurchaseDate, a.PurchaseSource, a.CreatedBy, a.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, errs.Conflictf("serial number %s already in use", a.SerialNumber)
		}
		return nil, err
	}

	const finalize = `UPDATE assets
SET tag = 'A-' || lpad(nextval('asset_tag_seq')::text, 6, '0')
WHERE tag = $1
RETURNING tag`
	var tag string
	if err = tx.QueryRow(ctx, finalize, tmpTag).Scan(&tag); err != nil {
		if isUniqueViolation(err) {
			return nil, errs.Conflictf("asset tag collision while finalizing")
		}
		return nil, err
	}

	out := *a
	out.Tag = tag
	out.Ver = 1
	return &out, nil
}

// GetByTag loads a single asset by tag.
func (r *AssetRepo) GetByTag(ctx context.Context, tag string) (*model.Asset, error) {
	const q = `SELECT ` + assetColumns + ` FROM assets WHERE tag=$1`
	return scanAsset(r.db.Pool.QueryRow(ctx, q, tag))
}

// GetBySerial loads a single non-deleted asset by serial number.
func (r *AssetRepo) GetBySerial(ctx context.Context, serial string) (*model.Asset, error) {
	const q = `SELECT ` + assetColumns + ` FROM assets WHERE serial_number=$1 AND status <> 'DELETED'`
	return scanAsset(r.db.Pool.QueryRow(ctx, q, serial))
}

// Save persists a mutated asset with an optimistic version check. The row is
// locked, the caller's base version compared, and ver bumped in one
// transaction; a mismatch means a concurrent writer won and yields a conflict.
func (r *AssetRepo) Save(ctx context.Context, a *model.Asset) (saved *model.Asset, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const sel = `SELECT ver FROM assets WHERE tag=$1 FOR UPDATE`
	var curVer int64
	if err = tx.QueryRow(ctx, sel, a.Tag).Scan(&curVer); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFoundf("asset %s", a.Tag)
		}
		return nil, err
	}
	if curVer != a.Ver {
		return nil, errs.Conflictf("asset %s was modified concurrently", a.Tag)
	}
	newVer := curVer + 1

	const upd = `UPDATE assets SET
serial_number=$2, name=$3, description=$4, brand=$5, model=$6, type=$7, department=$8, cost=$9,
status=$10, status_note=$11, purchase_date=$12, purchase_source=$13,
assigned_user_id=$14, site_id=$15, location_id=$16, reserved_from=$17, reserved_until=$18,
parent_tag=$19, ver=$20
WHERE tag=$1`
	if _, err = tx.Exec(ctx, upd,
		a.Tag, a.SerialNumber, a.Name, a.Description, a.Brand, a.Model, a.Type, a.Department, a.Cost,
		a.Status, a.StatusNote, a.PurchaseDate, a.PurchaseSource,
		a.AssignedUserID, a.SiteID, a.LocationID, a.ReservedFrom, a.ReservedUntil,
		a.ParentTag, newVer,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, errs.Conflictf("serial number %s already in use", a.SerialNumber)
		}
		return nil, err
	}

	out := *a
	out.Ver = newVer
	return &out, nil
}

// List returns all non-deleted assets ordered by tag.
func (r *AssetRepo) List(ctx context.Context) ([]model.Asset, error) {
	const q = `SELECT ` + assetColumns + ` FROM assets WHERE status <> 'DELETED' ORDER BY tag`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
