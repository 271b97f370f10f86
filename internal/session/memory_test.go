package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Skufu/CardioRisk/internal/dataset"
)

func sampleTable(t *testing.T) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable([]string{dataset.ColDiagnosis}, [][]string{{"si"}, {"no"}})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	return table
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	id := NewID()

	if _, ok, err := store.Get(ctx, id); ok || err != nil {
		t.Fatalf("expected empty session, got ok=%v err=%v", ok, err)
	}

	table := sampleTable(t)
	if err := store.Put(ctx, id, table); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := store.Get(ctx, id)
	if err != nil || !ok || got != table {
		t.Fatalf("expected stored table, got %v ok=%v err=%v", got, ok, err)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, id); ok {
		t.Fatal("expected table to be gone after delete")
	}
}

func TestMemoryStoreSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	a, b := NewID(), NewID()

	if err := store.Put(ctx, a, sampleTable(t)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok, _ := store.Get(ctx, b); ok {
		t.Fatal("session b must not see session a's table")
	}
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	id := NewID()
	if err := store.Put(ctx, id, sampleTable(t)); err != nil {
		t.Fatalf("put: %v", err)
	}

	now = now.Add(59 * time.Second)
	if _, ok, _ := store.Get(ctx, id); !ok {
		t.Fatal("expected table before ttl")
	}

	now = now.Add(time.Second)
	if _, ok, _ := store.Get(ctx, id); ok {
		t.Fatal("expected table to expire at ttl")
	}
	if store.Len() != 0 {
		t.Fatalf("expected no live entries, got %d", store.Len())
	}
}

func TestMemoryStoreRejectsInvalidID(t *testing.T) {
	store := NewMemoryStore(0)
	if err := store.Put(context.Background(), "not-a-uuid", sampleTable(t)); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestNewSelectsBackend(t *testing.T) {
	store, err := New(Options{Backend: "memory", TTL: time.Minute})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected *MemoryStore, got %T", store)
	}

	if _, err := New(Options{Backend: "etcd"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := New(Options{Backend: "redis"}); err == nil {
		t.Fatal("expected error when redis address is missing")
	}
}
