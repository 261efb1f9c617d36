package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/trackops/assetkeeper/internal/errs"
	"github.com/trackops/assetkeeper/internal/model"
)

// DirectoryRepo implements the Directory lookups plus the minimal create
// operations used by the admin endpoints.
type DirectoryRepo struct{ db *DB }

// NewDirectoryRepo constructs a directory repository.
func NewDirectoryRepo(db *DB) *DirectoryRepo { return &DirectoryRepo{db: db} }

// GetUser loads a user by id.
func (r *DirectoryRepo) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `SELECT id, username, full_name FROM users WHERE id=$1`
	var u model.User
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.Username, &u.FullName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFoundf("user %s", id)
		}
		return nil, err
	}
	return &u, nil
}

// GetSite loads a site by id.
func (r *DirectoryRepo) GetSite(ctx context.Context, id uuid.UUID) (*model.Site, error) {
	const q = `SELECT id, name FROM sites WHERE id=$1`
	var s model.Site
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&s.ID, &s.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFoundf("site %s", id)
		}
		return nil, err
	}
	return &s, nil
}

// GetLocation loads a location by id.
func (r *DirectoryRepo) GetLocation(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	const q = `SELECT id, site_id, name FROM locations WHERE id=$1`
	var l model.Location
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&l.ID, &l.SiteID, &l.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFoundf("location %s", id)
		}
		return nil, err
	}
	return &l, nil
}

// CreateUser inserts a directory user.
func (r *DirectoryRepo) CreateUser(ctx context.Context, u *model.User) error {
	const ins = `INSERT INTO users (id, username, full_name) VALUES ($1,$2,$3)`
	_, err := r.db.Pool.Exec(ctx, ins, u.ID, u.Username, u.FullName)
	if isUniqueViolation(err) {
		return errs.Conflictf("username %s already exists", u.Username)
	}
	return err
}

// CreateSite inserts a site.
func (r *DirectoryRepo) CreateSite(ctx context.Context, s *model.Site) error {
	const ins = `INSERT INTO sites (id, name) VALUES ($1,$2)`
	_, err := r.db.Pool.Exec(ctx, ins, s.ID, s.Name)
	return err
}

// CreateLocation inserts a location within a site.
func (r *DirectoryRepo) CreateLocation(ctx context.Context, l *model.Location) error {
	const ins = `INSERT INTO locations (id, site_id, name) VALUES ($1,$2,$3)`
	_, err := r.db.Pool.Exec(ctx, ins, l.ID, l.SiteID, l.Name)
	return err
}
