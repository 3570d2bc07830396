package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"vehicle-market/internal/ledger"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type BalanceHandlers struct {
	svc *ledger.Service
}

func NewBalanceHandlers(svc *ledger.Service) *BalanceHandlers {
	return &BalanceHandlers{svc: svc}
}

func (h *BalanceHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := chi.URLParam(r, "id")
		resp, err := h.svc.GetBalance(r.Context(), playerID)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *BalanceHandlers) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := chi.URLParam(r, "id")
		var body ledger.UpdateRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&body); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				WriteHTTPError(w, http.StatusRequestEntityTooLarge, "request_too_large")
				return
			}
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := h.svc.UpdateBalance(r.Context(), playerID, body)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *BalanceHandlers) Entries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		resp, err := h.svc.ListEntries(r.Context(), chi.URLParam(r, "id"), limit, offset)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *BalanceHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "db": "down"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "db": "up"})
	}
}

func writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrPlayerNotFound):
		WriteHTTPError(w, http.StatusNotFound, ledger.ErrPlayerNotFound.Error())
	case errors.Is(err, ledger.ErrMissingField),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrUnknownAction),
		errors.Is(err, ledger.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		WriteHTTPError(w, http.StatusConflict, ledger.ErrInsufficientFunds.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("ledger request failed")
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
