package events

import (
	"context"
	"time"
)

type BalanceChanged struct {
	EntryID    string    `json:"entry_id"`
	PlayerID   string    `json:"player_id"`
	Action     string    `json:"action"`
	Amount     float64   `json:"amount"`
	NewBalance float64   `json:"new_balance"`
	At         time.Time `json:"at"`
}

// Publisher delivers balance events to downstream consumers. Delivery is
// best effort: callers log failures and carry on.
type Publisher interface {
	PublishBalanceChanged(ctx context.Context, ev BalanceChanged) error
	Close() error
}

type Noop struct{}

func (Noop) PublishBalanceChanged(context.Context, BalanceChanged) error { return nil }

func (Noop) Close() error { return nil }
