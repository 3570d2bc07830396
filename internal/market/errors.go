package market

import "errors"

var (
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrBalanceNotLoaded  = errors.New("balance_not_loaded")
	ErrAdNotFound        = errors.New("ad_not_found")
	ErrInvalidAd         = errors.New("invalid_ad")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidAction     = errors.New("invalid_action")
	ErrInvalidTimeScale  = errors.New("invalid_time_scale")
	ErrInvalidTheme      = errors.New("invalid_theme")
	ErrPersistFailed     = errors.New("persist_failed")
)
