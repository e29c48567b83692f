package kvstore

import (
	"context"
	"database/sql"
	"path/filepath"
	"sort"
	"testing"

	_ "modernc.org/sqlite"
)

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()
	value, ok, err := store.Get(context.Background(), "dockday.shiftOrders.all.v1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || value != nil {
		t.Fatalf("expected missing key, got ok=%v value=%q", ok, value)
	}
}

func TestMemoryStore_PutOverwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Put(ctx, "k1", []byte("one")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "k1", []byte("two")); err != nil {
		t.Fatalf("put: %v", err)
	}
	value, ok, err := store.Get(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(value) != "two" {
		t.Fatalf("expected overwrite, got %q", value)
	}
}

func TestMemoryStore_KeysPrefix(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	for _, key := range []string{"ns.a.1", "ns.a.2", "ns.b.1"} {
		if err := store.Put(ctx, key, []byte("x")); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	keys, err := store.Keys(ctx, "ns.a.")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "ns.a.1" || keys[1] != "ns.a.2" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestMemoryStore_EmptyKey(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Put(context.Background(), "", []byte("x")); err != ErrEmptyKey {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if err := store.Put(ctx, "dockday.monthlyStatement.v1.agency-demo.2026-08", []byte(`{"id":"ST-1"}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "dockday.monthlyStatement.v1.agency-demo.2026-08", []byte(`{"id":"ST-2"}`)); err != nil {
		t.Fatalf("put overwrite: %v", err)
	}

	value, ok, err := store.Get(ctx, "dockday.monthlyStatement.v1.agency-demo.2026-08")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(value) != `{"id":"ST-2"}` {
		t.Fatalf("expected latest value, got %q", value)
	}

	keys, err := store.Keys(ctx, "dockday.monthlyStatement.v1.agency-demo.")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("expected 1 key, got %v", keys)
	}

	_, ok, err = store.Get(ctx, "dockday.monthlyStatement.v1.agency-demo.2026-09")
	if err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}
}

func TestLikePattern_EscapesWildcards(t *testing.T) {
	got := likePattern("ns.100%_a")
	want := `ns.100\%\_a%`
	if got != want {
		t.Fatalf("likePattern = %q, want %q", got, want)
	}
}
