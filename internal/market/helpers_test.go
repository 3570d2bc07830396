package market

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vehicle-market/internal/ledgerclient"
	"vehicle-market/internal/localstore"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var simStart = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type ledgerCall struct {
	amount float64
	action string
}

type fakeLedger struct {
	mu        sync.Mutex
	balance   float64
	gets      int
	updates   []ledgerCall
	getErr    error
	updateErr error
	// lostReply applies the update and then fails, as when the response
	// is lost after the ledger committed.
	lostReply error
}

func (f *fakeLedger) GetBalance(context.Context, string) (ledgerclient.Balance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return ledgerclient.Balance{}, f.getErr
	}
	return ledgerclient.Balance{Balance: f.balance, Name: "Tester"}, nil
}

func (f *fakeLedger) UpdateBalance(_ context.Context, _ string, amount float64, action string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, ledgerCall{amount: amount, action: action})
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	if action == ledgerclient.ActionAdd {
		f.balance += amount
	} else {
		f.balance -= amount
	}
	if f.lostReply != nil {
		return 0, f.lostReply
	}
	return f.balance, nil
}

func (f *fakeLedger) calls() []ledgerCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ledgerCall(nil), f.updates...)
}

// flakyStore fails writes to the keys listed in failSave.
type flakyStore struct {
	StateStore
	failSave map[string]bool
}

func (f *flakyStore) Save(key string, v any) error {
	if f.failSave[key] {
		return errors.New("disk full")
	}
	return f.StateStore.Save(key, v)
}

// captureLog redirects the global logger into a buffer for one test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func openState(t *testing.T) *localstore.Store {
	t.Helper()
	st, err := localstore.OpenInMemory()
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestMarket(t *testing.T, l Ledger, st StateStore) (*Market, *Session) {
	t.Helper()
	clock, err := LoadClock(st, 60, simStart)
	if err != nil {
		t.Fatalf("load clock: %v", err)
	}
	m := New(l, st, Options{
		RefundOnPublishFailure: true,
		WallClock:              func() time.Time { return time.UnixMilli(1700000000000) },
	})
	return m, NewSession("player-1", clock)
}

func seedAds(t *testing.T, st StateStore, ads ...Ad) {
	t.Helper()
	if err := st.Save(localstore.KeyAds, ads); err != nil {
		t.Fatalf("seed ads: %v", err)
	}
}

func storedAds(t *testing.T, st StateStore) []Ad {
	t.Helper()
	var ads []Ad
	if _, err := st.Load(localstore.KeyAds, &ads); err != nil {
		t.Fatalf("load ads: %v", err)
	}
	return ads
}

func testDraft(days int) AdDraft {
	return AdDraft{
		Model:        "Banshee 900R",
		Year:         2019,
		Mileage:      42000,
		Color:        "black",
		State:        "used",
		Price:        25000,
		DurationDays: days,
	}
}
