package kvstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func TestPostgresStore_RoundTrip(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	store, err := NewPostgresStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	prefix := fmt.Sprintf("it.%d.", time.Now().UnixNano())
	key := prefix + "order"
	if err := store.Put(ctx, key, []byte(`{"id":"SO-IT"}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	raw, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(raw) != `{"id":"SO-IT"}` {
		t.Fatalf("value = %s", raw)
	}

	// Overwrite replaces the value under the same key.
	if err := store.Put(ctx, key, []byte(`{"id":"SO-IT","version":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	raw, _, err = store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if string(raw) != `{"id":"SO-IT","version":2}` {
		t.Fatalf("value after overwrite = %s", raw)
	}

	keys, err := store.Keys(ctx, prefix)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Fatalf("keys = %v", keys)
	}
}
