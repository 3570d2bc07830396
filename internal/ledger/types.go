package ledger

import (
	"encoding/json"
	"time"
)

type BalanceResponse struct {
	Balance float64 `json:"balance"`
	Name    string  `json:"name"`
}

// UpdateRequest is the body of POST /api/balance/{id}/update. Amount keeps
// the raw JSON number (or numeric string) so that a missing value can be
// told apart from zero.
type UpdateRequest struct {
	Amount json.Number `json:"amount"`
	Action string      `json:"action"`
}

type UpdateResponse struct {
	Message    string  `json:"message"`
	NewBalance float64 `json:"newBalance"`
}

type EntriesResponse struct {
	Items  []EntryItem `json:"items"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

type EntryItem struct {
	ID           string    `json:"id"`
	Action       string    `json:"action"`
	Amount       float64   `json:"amount"`
	BalanceAfter float64   `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}
