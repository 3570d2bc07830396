package ledgerclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound           = errors.New("not_found")
	ErrBadRequest         = errors.New("bad_request")
	ErrConflict           = errors.New("conflict")
	ErrServer             = errors.New("server_error")
	ErrNetworkUnavailable = errors.New("network_unavailable")
)

// APIError is a non-2xx answer from the ledger service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ledger responded %d", e.Status)
	}
	return fmt.Sprintf("ledger responded %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status >= 400 && e.Status < 500:
		return ErrBadRequest
	default:
		return ErrServer
	}
}
