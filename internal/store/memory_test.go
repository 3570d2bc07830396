package store

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"
)

func TestMemoryStoreGetOrCreate(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	p, created, err := m.GetOrCreatePlayer(ctx, "abc12345", "Guest-2345")
	if err != nil || !created {
		t.Fatalf("first call: created=%v err=%v", created, err)
	}
	p.BalanceCents = 999

	again, created, err := m.GetOrCreatePlayer(ctx, "abc12345", "other")
	if err != nil || created {
		t.Fatalf("second call: created=%v err=%v", created, err)
	}
	if again.BalanceCents != 0 || again.Name != "Guest-2345" {
		t.Fatalf("stored player leaked a caller mutation: %+v", again)
	}
}

func TestMemoryStoreEnsurePlayerKeepsExisting(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	if created, _ := m.EnsurePlayer(ctx, "player-1", "Admin Dark", 5000000); !created {
		t.Fatal("expected seed to create player")
	}
	if _, err := m.AdjustBalance(ctx, "player-1", Adjustment{Action: "remove", DeltaCents: -100, AllowNegative: true}); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if created, _ := m.EnsurePlayer(ctx, "player-1", "Admin Dark", 5000000); created {
		t.Fatal("second seed must not recreate player")
	}
	p, _ := m.GetPlayer(ctx, "player-1")
	if p.BalanceCents != 4999900 {
		t.Fatalf("balance = %d, want 4999900", p.BalanceCents)
	}
}

func TestMemoryStoreAdjustBalance(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	if _, err := m.AdjustBalance(ctx, "ghost", Adjustment{Action: "add", DeltaCents: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, _ = m.EnsurePlayer(ctx, "p", "P", 1000)
	if _, err := m.AdjustBalance(ctx, "p", Adjustment{Action: "remove", DeltaCents: -1500}); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	entry, err := m.AdjustBalance(ctx, "p", Adjustment{Action: "remove", DeltaCents: -1500, AllowNegative: true})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if entry.BalanceAfterCents != -500 || entry.AmountCents != 1500 || entry.Action != "remove" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestMemoryStoreAdjustBalanceOverflow(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	_, _ = m.EnsurePlayer(ctx, "rich", "Rich", math.MaxInt64-10)
	_, _ = m.EnsurePlayer(ctx, "poor", "Poor", math.MinInt64+10)

	tests := []struct {
		id    string
		adj   Adjustment
		start int64
	}{
		{"rich", Adjustment{Action: "add", DeltaCents: 11, AllowNegative: true}, math.MaxInt64 - 10},
		{"poor", Adjustment{Action: "remove", DeltaCents: -11, AllowNegative: true}, math.MinInt64 + 10},
	}
	for _, tt := range tests {
		if _, err := m.AdjustBalance(ctx, tt.id, tt.adj); !errors.Is(err, ErrBalanceOverflow) {
			t.Fatalf("%s: expected ErrBalanceOverflow, got %v", tt.id, err)
		}
		p, _ := m.GetPlayer(ctx, tt.id)
		if p.BalanceCents != tt.start {
			t.Fatalf("%s: balance wrapped to %d", tt.id, p.BalanceCents)
		}
	}
	if _, err := m.AdjustBalance(ctx, "rich", Adjustment{Action: "add", DeltaCents: 10}); err != nil {
		t.Fatalf("add up to the limit: %v", err)
	}
}

func TestMemoryStoreConcurrentAdjustments(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	_, _ = m.EnsurePlayer(ctx, "p", "P", 0)

	const workers = 200
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			delta := int64(100)
			action := "add"
			if i%2 == 1 {
				delta = -25
				action = "remove"
			}
			_, _ = m.AdjustBalance(ctx, "p", Adjustment{Action: action, DeltaCents: delta, AllowNegative: true})
		}(i)
	}
	wg.Wait()

	p, _ := m.GetPlayer(ctx, "p")
	want := int64(workers/2*100 - workers/2*25)
	if p.BalanceCents != want {
		t.Fatalf("balance = %d, want %d", p.BalanceCents, want)
	}
	entries, _ := m.ListBalanceEntries(ctx, "p", 500, 0)
	if len(entries) != workers {
		t.Fatalf("entries = %d, want %d", len(entries), workers)
	}
}

func TestMemoryStoreListBalanceEntriesNewestFirst(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	m.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	_, _ = m.EnsurePlayer(ctx, "p", "P", 0)
	for i := 1; i <= 3; i++ {
		if _, err := m.AdjustBalance(ctx, "p", Adjustment{Action: "add", DeltaCents: int64(i)}); err != nil {
			t.Fatalf("adjust: %v", err)
		}
	}

	page, err := m.ListBalanceEntries(ctx, "p", 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].AmountCents != 3 || page[1].AmountCents != 2 {
		t.Fatalf("unexpected first page: %+v", page)
	}
	rest, _ := m.ListBalanceEntries(ctx, "p", 2, 2)
	if len(rest) != 1 || rest[0].AmountCents != 1 {
		t.Fatalf("unexpected second page: %+v", rest)
	}
	empty, _ := m.ListBalanceEntries(ctx, "p", 2, 10)
	if len(empty) != 0 {
		t.Fatalf("expected empty page, got %+v", empty)
	}
}

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/market?sslmode=disable", "pgx5://u:p@localhost:5432/market?sslmode=disable"},
		{"postgresql://localhost/market", "pgx5://localhost/market"},
		{"pgx5://localhost/market", "pgx5://localhost/market"},
	}
	for _, tt := range tests {
		if got := migrateURL(tt.in); got != tt.want {
			t.Fatalf("migrateURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
