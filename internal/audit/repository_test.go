package audit

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"dockday/internal/kvstore"
)

func TestLogAndRecent(t *testing.T) {
	repo := NewRepository(kvstore.NewMemoryStore())
	ctx := context.Background()

	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	for i, action := range []string{"order.approve", "statement.generate", "statement.advance"} {
		entry := Entry{
			Actor:        "ops-1",
			Role:         "admin",
			Action:       action,
			ResourceType: "order",
			ResourceID:   "SO-1",
			Metadata:     json.RawMessage(`{"k":"v"}`),
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Log(ctx, entry); err != nil {
			t.Fatalf("log %s: %v", action, err)
		}
	}

	entries, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].Action != "statement.advance" || entries[1].Action != "statement.generate" {
		t.Fatalf("order = %q, %q", entries[0].Action, entries[1].Action)
	}
	if entries[0].ID == "" || entries[0].PayloadDigest == "" {
		t.Fatalf("entry not filled: %+v", entries[0])
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.7:4455"
	if ip := ClientIP(r); ip != "10.0.0.7" {
		t.Fatalf("ip = %q", ip)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if ip := ClientIP(r); ip != "203.0.113.9" {
		t.Fatalf("forwarded ip = %q", ip)
	}
}
