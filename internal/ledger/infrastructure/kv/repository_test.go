package kv

import (
	"context"
	"testing"
	"time"

	"dockday/internal/kvstore"
	ledger "dockday/internal/ledger/domain"
	orders "dockday/internal/orders/domain"
)

func TestSaveAndByOrder(t *testing.T) {
	store := kvstore.NewMemoryStore()
	repo, err := NewActualCostRepository(store)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	ctx := context.Background()

	record := ledger.New("SO-A", []ledger.MoneyLine{{
		Key:         "car",
		Label:       "Transport",
		Amount:      600,
		Attachments: []orders.Attachment{{Name: "receipt.png", Size: 1024, Type: "image/png"}},
	}}, "fuel surcharge", ledger.ActualDetails{}, time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC))
	if err := repo.Save(ctx, record); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok, err := store.Get(ctx, "dockday.shiftOrderActual.v1.SO-A"); err != nil || !ok {
		t.Fatalf("expected record under namespaced key, ok=%v err=%v", ok, err)
	}

	found, err := repo.ByOrder(ctx, "SO-A")
	if err != nil {
		t.Fatalf("by order: %v", err)
	}
	if found == nil || found.Total != 600 || found.Notes != "fuel surcharge" {
		t.Fatalf("found = %+v", found)
	}
}

func TestByOrder_MissingAndMalformed(t *testing.T) {
	store := kvstore.NewMemoryStore()
	repo, err := NewActualCostRepository(store)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	ctx := context.Background()

	found, err := repo.ByOrder(ctx, "SO-MISSING")
	if err != nil || found != nil {
		t.Fatalf("expected nil for missing record, got %+v err=%v", found, err)
	}

	if err := store.Put(ctx, "dockday.shiftOrderActual.v1.SO-B", []byte("{oops")); err != nil {
		t.Fatalf("put: %v", err)
	}
	found, err = repo.ByOrder(ctx, "SO-B")
	if err != nil || found != nil {
		t.Fatalf("malformed record must read as absent, got %+v err=%v", found, err)
	}
}
