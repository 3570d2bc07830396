package store

import "time"

type Player struct {
	ID           string
	Name         string
	BalanceCents int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type BalanceEntry struct {
	ID                string
	PlayerID          string
	Action            string
	AmountCents       int64
	BalanceAfterCents int64
	CreatedAt         time.Time
}

// Adjustment is one signed change applied to a player's balance.
// DeltaCents is negative for removals.
type Adjustment struct {
	Action        string
	DeltaCents    int64
	AllowNegative bool
}

func (a Adjustment) amountCents() int64 {
	if a.DeltaCents < 0 {
		return -a.DeltaCents
	}
	return a.DeltaCents
}
