package postgres

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/trackops/assetkeeper/internal/errs"
	"github.com/trackops/assetkeeper/internal/model"
)

func TestDirectoryRepo_GetUser_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewDirectoryRepo(db)

	id := uuid.Must(uuid.NewV4())
	mock.ExpectQuery(`SELECT id, username, full_name FROM users WHERE id=\$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "full_name"}).
			AddRow(id, "u7", "User Seven"))

	u, err := r.GetUser(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "u7", u.Username)
}

func TestDirectoryRepo_GetUser_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewDirectoryRepo(db)

	id := uuid.Must(uuid.NewV4())
	mock.ExpectQuery(`SELECT id, username, full_name FROM users WHERE id=\$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := r.GetUser(context.Background(), id)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDirectoryRepo_GetLocation_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewDirectoryRepo(db)

	id := uuid.Must(uuid.NewV4())
	siteID := uuid.Must(uuid.NewV4())
	mock.ExpectQuery(`SELECT id, site_id, name FROM locations WHERE id=\$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "site_id", "name"}).
			AddRow(id, siteID, "dock 3"))

	l, err := r.GetLocation(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, siteID, l.SiteID)
}

func TestDirectoryRepo_CreateUser_DuplicateUsername(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewDirectoryRepo(db)

	u := &model.User{ID: uuid.Must(uuid.NewV4()), Username: "u7"}
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(u.ID, u.Username, u.FullName).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := r.CreateUser(context.Background(), u)
	require.ErrorIs(t, err, errs.ErrConflict)
}
