package kv

import (
	"context"
	"testing"
	"time"

	"dockday/internal/kvstore"
	statement "dockday/internal/statement/domain"
)

func newRepo(t *testing.T, opts ...Option) (*StatementRepository, *kvstore.MemoryStore) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	repo, err := NewStatementRepository(store, opts...)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	return repo, store
}

func sample(period string) *statement.MonthlyStatement {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	return &statement.MonthlyStatement{
		ID:              "ST-TEST",
		AgencyCompanyID: "agency-demo",
		Period:          period,
		CreatedAt:       now,
		UpdatedAt:       now,
		Status:          statement.StatusDraft,
		OrderIDs:        []string{"SO-A"},
		Totals:          statement.Totals{Estimated: 540, Actual: 600},
	}
}

func TestSaveAndFind(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, sample("2026-08")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok, err := store.Get(ctx, "dockday.monthlyStatement.v1.agency-demo.2026-08"); err != nil || !ok {
		t.Fatalf("expected record under namespaced key, ok=%v err=%v", ok, err)
	}

	found, err := repo.Find(ctx, "agency-demo", "2026-08")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found == nil || found.ID != "ST-TEST" || found.Totals.Estimated != 540 {
		t.Fatalf("found = %+v", found)
	}
	if found.Version != 1 {
		t.Fatalf("version = %d", found.Version)
	}
}

func TestSave_RejectsStaleVersion(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	first := sample("2026-08")
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	stale := sample("2026-08")
	stale.Version = 0
	// The first save bumped the stored version to 1.
	if first.Version != 1 {
		t.Fatalf("version after save = %d", first.Version)
	}
	if err := repo.Save(ctx, stale); err != statement.ErrStaleUpdate {
		t.Fatalf("expected ErrStaleUpdate, got %v", err)
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save with current version: %v", err)
	}
}

func TestSave_Validation(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, nil); err != statement.ErrNilStatement {
		t.Fatalf("expected ErrNilStatement, got %v", err)
	}
	noCompany := sample("2026-08")
	noCompany.AgencyCompanyID = ""
	if err := repo.Save(ctx, noCompany); err != statement.ErrEmptyCompanyID {
		t.Fatalf("expected ErrEmptyCompanyID, got %v", err)
	}
	badPeriod := sample("202608")
	if err := repo.Save(ctx, badPeriod); err != statement.ErrInvalidPeriod {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestFind_MissingAndMalformed(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	found, err := repo.Find(ctx, "agency-demo", "2026-08")
	if err != nil || found != nil {
		t.Fatalf("expected nil for missing record, got %+v err=%v", found, err)
	}

	if err := store.Put(ctx, "dockday.monthlyStatement.v1.agency-demo.2026-08", []byte("{broken")); err != nil {
		t.Fatalf("put: %v", err)
	}
	found, err = repo.Find(ctx, "agency-demo", "2026-08")
	if err != nil || found != nil {
		t.Fatalf("malformed record must read as absent, got %+v err=%v", found, err)
	}
}

func TestListByCompany_NewestFirst(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	for _, period := range []string{"2026-06", "2026-08", "2026-07"} {
		if err := repo.Save(ctx, sample(period)); err != nil {
			t.Fatalf("save %s: %v", period, err)
		}
	}
	// Broken entries are skipped, not surfaced.
	if err := store.Put(ctx, "dockday.monthlyStatement.v1.agency-demo.2026-05", []byte("nope")); err != nil {
		t.Fatalf("put: %v", err)
	}

	list, err := repo.ListByCompany(ctx, "agency-demo")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list length = %d", len(list))
	}
	for i, want := range []string{"2026-08", "2026-07", "2026-06"} {
		if list[i].Period != want {
			t.Fatalf("list[%d].Period = %q, want %q", i, list[i].Period, want)
		}
	}

	other, err := repo.ListByCompany(ctx, "agency-other")
	if err != nil || len(other) != 0 {
		t.Fatalf("expected empty list for other company, got %v err=%v", other, err)
	}
}

func TestNamespaceOption(t *testing.T) {
	repo, store := newRepo(t, WithNamespace("portcall"))
	ctx := context.Background()

	if err := repo.Save(ctx, sample("2026-08")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok, err := store.Get(ctx, "portcall.monthlyStatement.v1.agency-demo.2026-08"); err != nil || !ok {
		t.Fatalf("expected record under custom namespace, ok=%v err=%v", ok, err)
	}
}
