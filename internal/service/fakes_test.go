package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/trackops/assetkeeper/internal/errs"
	"github.com/trackops/assetkeeper/internal/model"
	"github.com/trackops/assetkeeper/internal/repository"
)

// fixedClock returns a constant time so history timestamps are predictable.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// fakeAssetRepo keeps assets in a map and hands out copies, so a failed
// transition observably leaves the stored snapshot untouched.
type fakeAssetRepo struct {
	assets  map[string]*model.Asset
	nextTag int
	saveErr error
}

var _ repository.AssetRepository = (*fakeAssetRepo)(nil)

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: map[string]*model.Asset{}}
}

func (f *fakeAssetRepo) put(a *model.Asset) {
	cp := *a
	f.assets[a.Tag] = &cp
}

func (f *fakeAssetRepo) Create(_ context.Context, a *model.Asset) (*model.Asset, error) {
	f.nextTag++
	cp := *a
	cp.Tag = fmt.Sprintf("A-%06d", f.nextTag)
	cp.Ver = 1
	f.assets[cp.Tag] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAssetRepo) GetByTag(_ context.Context, tag string) (*model.Asset, error) {
	a, ok := f.assets[tag]
	if !ok {
		return nil, errs.NotFoundf("asset %s", tag)
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAssetRepo) GetBySerial(_ context.Context, serial string) (*model.Asset, error) {
	for _, a := range f.assets {
		if a.SerialNumber == serial && a.Status != model.StatusDeleted {
			cp := *a
			return &cp, nil
		}
	}
	return nil, errs.NotFoundf("serial %s", serial)
}

func (f *fakeAssetRepo) Save(_ context.Context, a *model.Asset) (*model.Asset, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	cur, ok := f.assets[a.Tag]
	if !ok {
		return nil, errs.NotFoundf("asset %s", a.Tag)
	}
	if cur.Ver != a.Ver {
		return nil, errs.Conflictf("asset %s was modified concurrently", a.Tag)
	}
	cp := *a
	cp.Ver++
	f.assets[a.Tag] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAssetRepo) List(_ context.Context) ([]model.Asset, error) {
	var out []model.Asset
	for _, a := range f.assets {
		if a.Status != model.StatusDeleted {
			out = append(out, *a)
		}
	}
	return out, nil
}

// fakeLedger records appends in order; ListByAssetTag returns them reversed
// (newest first), mirroring the real ledger's retrieval order.
type fakeLedger struct {
	entries   []model.HistoryEntry
	appendErr error
}

var _ repository.HistoryRepository = (*fakeLedger)(nil)

func (f *fakeLedger) Append(_ context.Context, e *model.HistoryEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeLedger) ListByAssetTag(_ context.Context, tag string) ([]model.HistoryEntry, error) {
	var out []model.HistoryEntry
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].AssetTag == tag {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

// fields returns the appended attribute names in append order, for asserting
// the engine's fixed check order.
func (f *fakeLedger) fields() []string {
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Field)
	}
	return out
}

func (f *fakeLedger) find(field string) *model.HistoryEntry {
	for i := range f.entries {
		if f.entries[i].Field == field {
			return &f.entries[i]
		}
	}
	return nil
}

type fakeDirectory struct {
	users     map[uuid.UUID]*model.User
	sites     map[uuid.UUID]*model.Site
	locations map[uuid.UUID]*model.Location
}

var _ repository.Directory = (*fakeDirectory)(nil)

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users:     map[uuid.UUID]*model.User{},
		sites:     map[uuid.UUID]*model.Site{},
		locations: map[uuid.UUID]*model.Location{},
	}
}

func (f *fakeDirectory) addUser(name string) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	f.users[id] = &model.User{ID: id, Username: name}
	return id
}

func (f *fakeDirectory) addSite(name string) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	f.sites[id] = &model.Site{ID: id, Name: name}
	return id
}

func (f *fakeDirectory) addLocation(siteID uuid.UUID, name string) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	f.locations[id] = &model.Location{ID: id, SiteID: siteID, Name: name}
	return id
}

func (f *fakeDirectory) GetUser(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errs.NotFoundf("user %s", id)
	}
	return u, nil
}

func (f *fakeDirectory) GetSite(_ context.Context, id uuid.UUID) (*model.Site, error) {
	s, ok := f.sites[id]
	if !ok {
		return nil, errs.NotFoundf("site %s", id)
	}
	return s, nil
}

func (f *fakeDirectory) GetLocation(_ context.Context, id uuid.UUID) (*model.Location, error) {
	l, ok := f.locations[id]
	if !ok {
		return nil, errs.NotFoundf("location %s", id)
	}
	return l, nil
}

// newTestService wires the engine over fresh fakes.
func newTestService() (*AssetService, *fakeAssetRepo, *fakeLedger, *fakeDirectory) {
	repo := newFakeAssetRepo()
	ledger := &fakeLedger{}
	dir := newFakeDirectory()
	tracker := NewChangeTracker(ledger)
	tracker.clock = fixedClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewAssetService(repo, dir, tracker)
	svc.clock = fixedClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return svc, repo, ledger, dir
}

// seedAsset stores an available asset and returns its tag.
func seedAsset(repo *fakeAssetRepo, mut func(*model.Asset)) string {
	a := &model.Asset{
		Tag:          "A-000001",
		SerialNumber: "SN-1",
		Name:         "Laptop",
		Status:       model.StatusAvailable,
		CreatedBy:    "seed",
		CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Ver:          1,
	}
	if mut != nil {
		mut(a)
	}
	repo.put(a)
	return a.Tag
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
