package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/trackops/assetkeeper/internal/model"
)

func TestHistoryRepo_Append(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewHistoryRepo(db)

	e := &model.HistoryEntry{
		ID:        uuid.Must(uuid.NewV4()),
		AssetTag:  "A-000042",
		Field:     "status",
		Old:       "AVAILABLE",
		New:       "RESERVED",
		Actor:     "alice",
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec(`INSERT INTO asset_history`).
		WithArgs(e.ID, e.AssetTag, e.Field, e.Old, e.New, e.Actor, e.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.Append(context.Background(), e))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepo_ListByAssetTag_NewestFirst(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewHistoryRepo(db)

	newer := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	id1 := uuid.Must(uuid.NewV4())
	id2 := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SELECT id, asset_tag, field, old_value, new_value, actor, created_at\s+FROM asset_history WHERE asset_tag=\$1\s+ORDER BY created_at DESC, id DESC`).
		WithArgs("A-000042").
		WillReturnRows(pgxmock.NewRows([]string{"id", "asset_tag", "field", "old_value", "new_value", "actor", "created_at"}).
			AddRow(id2, "A-000042", "status", "RESERVED", "AVAILABLE", "bob", newer).
			AddRow(id1, "A-000042", "status", "AVAILABLE", "RESERVED", "alice", older))

	es, err := r.ListByAssetTag(context.Background(), "A-000042")
	require.NoError(t, err)
	require.Len(t, es, 2)
	require.Equal(t, "bob", es[0].Actor)
	require.Equal(t, "alice", es[1].Actor)
	require.True(t, es[0].CreatedAt.After(es[1].CreatedAt))
}

func TestHistoryRepo_ListByAssetTag_Empty(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewHistoryRepo(db)

	mock.ExpectQuery(`SELECT id, asset_tag, field, old_value, new_value, actor, created_at`).
		WithArgs("A-000001").
		WillReturnRows(pgxmock.NewRows([]string{"id", "asset_tag", "field", "old_value", "new_value", "actor", "created_at"}))

	es, err := r.ListByAssetTag(context.Background(), "A-000001")
	require.NoError(t, err)
	require.Empty(t, es)
}
