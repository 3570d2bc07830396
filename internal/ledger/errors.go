package ledger

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid_request")
	ErrMissingField      = errors.New("missing_amount_or_action")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrUnknownAction     = errors.New("unknown_action")
	ErrPlayerNotFound    = errors.New("player_not_found")
	ErrInsufficientFunds = errors.New("insufficient_funds")
)
