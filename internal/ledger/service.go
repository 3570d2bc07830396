package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"vehicle-market/internal/events"
	"vehicle-market/internal/metrics"
	"vehicle-market/internal/store"

	"github.com/rs/zerolog/log"
)

const updatedMessage = "balance updated"

// Store is the player persistence the ledger needs. Both store.Store and
// store.MemoryStore satisfy it.
type Store interface {
	GetPlayer(ctx context.Context, id string) (*store.Player, error)
	GetOrCreatePlayer(ctx context.Context, id, name string) (*store.Player, bool, error)
	EnsurePlayer(ctx context.Context, id, name string, initialCents int64) (bool, error)
	AdjustBalance(ctx context.Context, playerID string, adj store.Adjustment) (*store.BalanceEntry, error)
	ListBalanceEntries(ctx context.Context, playerID string, limit, offset int) ([]store.BalanceEntry, error)
	Ping(ctx context.Context) error
}

type Options struct {
	// AllowNegative lets a removal take a balance below zero.
	AllowNegative bool
}

type Service struct {
	store         Store
	events        events.Publisher
	allowNegative bool
}

func NewService(st Store, pub events.Publisher, opts Options) *Service {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Service{store: st, events: pub, allowNegative: opts.AllowNegative}
}

// Seed describes a player created at startup when missing.
type Seed struct {
	ID      string
	Name    string
	Balance float64
}

var DefaultSeeds = []Seed{
	{ID: "player-1", Name: "Admin Dark", Balance: 50000.00},
	{ID: "player-2", Name: "Dark Runner", Balance: 1500.50},
}

func (s *Service) SeedPlayers(ctx context.Context, seeds []Seed) error {
	for _, sd := range seeds {
		created, err := s.store.EnsurePlayer(ctx, sd.ID, sd.Name, ToCents(sd.Balance))
		if err != nil {
			return fmt.Errorf("seed player %s: %w", sd.ID, err)
		}
		if created {
			log.Info().Str("player_id", sd.ID).Str("name", sd.Name).Float64("balance", sd.Balance).Msg("player seeded")
		}
	}
	return nil
}

// GuestName is the display name given to players created on first read.
func GuestName(playerID string) string {
	suffix := playerID
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return "Guest-" + suffix
}

// GetBalance is an explicit get-or-create: an unknown player is created with
// a zero balance and a guest name, and later reads return that same record.
func (s *Service) GetBalance(ctx context.Context, playerID string) (*BalanceResponse, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, ErrInvalidRequest
	}
	p, created, err := s.store.GetOrCreatePlayer(ctx, playerID, GuestName(playerID))
	if err != nil {
		return nil, fmt.Errorf("get or create player %s: %w", playerID, err)
	}
	if created {
		metrics.RecordPlayerCreated()
		log.Info().Str("player_id", p.ID).Str("name", p.Name).Msg("guest player created")
	}
	return &BalanceResponse{Balance: FromCents(p.BalanceCents), Name: p.Name}, nil
}

// UpdateBalance adds or removes an amount. The player must exist; the amount
// is rounded to cents and applied atomically by the store.
func (s *Service) UpdateBalance(ctx context.Context, playerID string, req UpdateRequest) (*UpdateResponse, error) {
	resp, action, err := s.updateBalance(ctx, playerID, req)
	metrics.RecordBalanceUpdate(string(action), resultLabel(err))
	return resp, err
}

func (s *Service) updateBalance(ctx context.Context, playerID string, req UpdateRequest) (*UpdateResponse, Action, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, "", ErrInvalidRequest
	}
	if _, err := s.store.GetPlayer(ctx, playerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrPlayerNotFound
		}
		return nil, "", fmt.Errorf("load player %s: %w", playerID, err)
	}

	cents, action, err := parseUpdate(req)
	if err != nil {
		return nil, action, err
	}

	entry, err := s.store.AdjustBalance(ctx, playerID, store.Adjustment{
		Action:        string(action),
		DeltaCents:    action.Delta(cents),
		AllowNegative: s.allowNegative,
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, action, ErrPlayerNotFound
	case errors.Is(err, store.ErrInsufficientBalance):
		return nil, action, ErrInsufficientFunds
	case errors.Is(err, store.ErrBalanceOverflow):
		return nil, action, ErrInvalidAmount
	case err != nil:
		return nil, action, fmt.Errorf("adjust balance %s: %w", playerID, err)
	}

	newBalance := FromCents(entry.BalanceAfterCents)
	log.Info().
		Str("player_id", playerID).
		Str("action", string(action)).
		Float64("amount", FromCents(cents)).
		Float64("new_balance", newBalance).
		Str("entry_id", entry.ID).
		Msg("balance updated")

	s.publish(ctx, events.BalanceChanged{
		EntryID:    entry.ID,
		PlayerID:   playerID,
		Action:     string(action),
		Amount:     FromCents(cents),
		NewBalance: newBalance,
		At:         entry.CreatedAt,
	})
	return &UpdateResponse{Message: updatedMessage, NewBalance: newBalance}, action, nil
}

func (s *Service) ListEntries(ctx context.Context, playerID string, limit, offset int) (*EntriesResponse, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, ErrInvalidRequest
	}
	rows, err := s.store.ListBalanceEntries(ctx, playerID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]EntryItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, EntryItem{
			ID:           r.ID,
			Action:       r.Action,
			Amount:       FromCents(r.AmountCents),
			BalanceAfter: FromCents(r.BalanceAfterCents),
			CreatedAt:    r.CreatedAt,
		})
	}
	return &EntriesResponse{Items: out, Limit: limit, Offset: offset}, nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) publish(ctx context.Context, ev events.BalanceChanged) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.events.PublishBalanceChanged(ctx, ev); err != nil {
		metrics.RecordEventPublishError()
		log.Warn().Err(err).Str("player_id", ev.PlayerID).Str("entry_id", ev.EntryID).Msg("balance event publish failed")
	}
}

func parseUpdate(req UpdateRequest) (int64, Action, error) {
	rawAmount := strings.TrimSpace(req.Amount.String())
	if rawAmount == "" || req.Action == "" {
		return 0, "", ErrMissingField
	}
	action, ok := ParseAction(req.Action)
	if !ok {
		return 0, "", ErrUnknownAction
	}
	amount, err := req.Amount.Float64()
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, action, ErrInvalidAmount
	}
	if amount == 0 {
		return 0, action, ErrMissingField
	}
	if amount > MaxAmount {
		return 0, action, ErrInvalidAmount
	}
	cents := ToCents(amount)
	if cents <= 0 {
		return 0, action, ErrInvalidAmount
	}
	return cents, action, nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrPlayerNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrMissingField),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrUnknownAction):
		return "invalid_request"
	default:
		return "error"
	}
}
