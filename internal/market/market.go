// Package market is the ad marketplace client: it keeps a simulated clock
// and a locally persisted list of vehicle ads, and pays the balance ledger
// to publish or buy them.
package market

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"vehicle-market/internal/ledgerclient"
	"vehicle-market/internal/localstore"
)

const refundTimeout = 5 * time.Second

type Ledger interface {
	GetBalance(ctx context.Context, playerID string) (ledgerclient.Balance, error)
	UpdateBalance(ctx context.Context, playerID string, amount float64, action string) (float64, error)
}

// StateStore holds JSON values under independent keys. Load reports false
// for keys that were never written.
type StateStore interface {
	Load(key string, out any) (bool, error)
	Save(key string, v any) error
}

// Session is the per-user state every operation works against. The
// balance is only ever taken from ledger responses.
type Session struct {
	PlayerID string
	Clock    *Clock

	mu      sync.Mutex
	balance float64
	loaded  bool
}

func NewSession(playerID string, clock *Clock) *Session {
	return &Session{PlayerID: playerID, Clock: clock}
}

// Balance returns the last balance reported by the ledger and whether one
// has been fetched at all.
func (s *Session) Balance() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance, s.loaded
}

func (s *Session) setBalance(v float64) {
	s.mu.Lock()
	s.balance = v
	s.loaded = true
	s.mu.Unlock()
}

type Options struct {
	Pricing                Pricing
	RefundOnPublishFailure bool
	DefaultTheme           string
	// WallClock stamps ad ids; defaults to time.Now.
	WallClock func() time.Time
}

type Market struct {
	ledger Ledger
	st     StateStore
	opts   Options

	// mu serialises read-modify-write cycles on the persisted ad list.
	mu sync.Mutex
}

func New(l Ledger, st StateStore, opts Options) *Market {
	if opts.Pricing == (Pricing{}) {
		opts.Pricing = DefaultPricing
	}
	if opts.Pricing.MaxDays <= 0 {
		opts.Pricing.MaxDays = DefaultPricing.MaxDays
	}
	if opts.DefaultTheme == "" {
		opts.DefaultTheme = "dark-neon"
	}
	if opts.WallClock == nil {
		opts.WallClock = time.Now
	}
	return &Market{ledger: l, st: st, opts: opts}
}

func (m *Market) Pricing() Pricing { return m.opts.Pricing }

// RefreshBalance fetches the player's balance from the ledger. The ledger
// creates unknown players on first read.
func (m *Market) RefreshBalance(ctx context.Context, s *Session) (ledgerclient.Balance, error) {
	bal, err := m.ledger.GetBalance(ctx, s.PlayerID)
	if err != nil {
		return ledgerclient.Balance{}, fmt.Errorf("fetch balance: %w", err)
	}
	s.setBalance(bal.Balance)
	return bal, nil
}

// ModifyBalance tops up or withdraws money directly.
func (m *Market) ModifyBalance(ctx context.Context, s *Session, amount float64, action string) (float64, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	if action != ledgerclient.ActionAdd && action != ledgerclient.ActionRemove {
		return 0, ErrInvalidAction
	}
	newBalance, err := m.ledger.UpdateBalance(ctx, s.PlayerID, amount, action)
	if err != nil {
		return 0, fmt.Errorf("%s balance: %w", action, err)
	}
	s.setBalance(newBalance)
	return newBalance, nil
}

// Publish charges the publication fee and, once the ledger accepted the
// charge, stores the ad. Nothing is stored when the charge fails.
func (m *Market) Publish(ctx context.Context, s *Session, draft AdDraft) (Ad, error) {
	if err := draft.validate(m.opts.Pricing.MaxDays); err != nil {
		return Ad{}, err
	}
	cost := m.opts.Pricing.Cost(draft.DurationDays)

	bal, err := m.RefreshBalance(ctx, s)
	if err != nil {
		return Ad{}, err
	}
	if bal.Balance < cost {
		return Ad{}, fmt.Errorf("%w: publication costs %.2f, balance is %.2f", ErrInsufficientFunds, cost, bal.Balance)
	}

	newBalance, err := m.ledger.UpdateBalance(ctx, s.PlayerID, cost, ledgerclient.ActionRemove)
	if err != nil {
		log.Warn().Err(err).
			Str("player_id", s.PlayerID).
			Float64("cost", cost).
			Msg("publication fee charge failed; ledger may have charged without an ad")
		return Ad{}, fmt.Errorf("charge publication fee: %w", err)
	}
	s.setBalance(newBalance)

	m.mu.Lock()
	defer m.mu.Unlock()

	ads, err := m.loadAds()
	if err == nil {
		ad := draft.build(m.nextID(ads), s.Clock.Now())
		if err = m.saveAds(append(ads, ad)); err == nil {
			log.Info().
				Str("player_id", s.PlayerID).
				Str("ad_id", ad.ID).
				Float64("cost", cost).
				Float64("balance", newBalance).
				Msg("ad published")
			return ad, nil
		}
	}

	log.Warn().Err(err).
		Str("player_id", s.PlayerID).
		Float64("cost", cost).
		Msg("publication fee charged but ad not stored")
	if m.opts.RefundOnPublishFailure {
		m.refund(ctx, s, cost)
	}
	return Ad{}, fmt.Errorf("%w: %v", ErrPersistFailed, err)
}

func (m *Market) refund(ctx context.Context, s *Session, amount float64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refundTimeout)
	defer cancel()
	newBalance, err := m.ledger.UpdateBalance(ctx, s.PlayerID, amount, ledgerclient.ActionAdd)
	if err != nil {
		charged, _ := s.Balance()
		log.Error().Err(err).
			Str("player_id", s.PlayerID).
			Float64("refund", amount).
			Float64("balance", charged).
			Msg("publication fee refund failed")
		return
	}
	s.setBalance(newBalance)
	log.Info().Str("player_id", s.PlayerID).Float64("refund", amount).Msg("publication fee refunded")
}

// Purchase buys an active ad. The check against the last fetched balance
// happens before any ledger call; the ledger's answer is authoritative.
func (m *Market) Purchase(ctx context.Context, s *Session, adID string) (Ad, error) {
	balance, loaded := s.Balance()
	if !loaded {
		return Ad{}, ErrBalanceNotLoaded
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ads, err := m.loadAds()
	if err != nil {
		return Ad{}, err
	}
	now := s.Clock.Now()
	idx := indexOf(ads, adID)
	if idx < 0 || !ads[idx].ActiveAt(now) {
		return Ad{}, ErrAdNotFound
	}
	ad := ads[idx]
	if balance < ad.Price {
		return Ad{}, fmt.Errorf("%w: price is %.2f, balance is %.2f", ErrInsufficientFunds, ad.Price, balance)
	}

	newBalance, err := m.ledger.UpdateBalance(ctx, s.PlayerID, ad.Price, ledgerclient.ActionRemove)
	if err != nil {
		log.Warn().Err(err).
			Str("player_id", s.PlayerID).
			Str("ad_id", ad.ID).
			Float64("price", ad.Price).
			Msg("ad payment failed; ledger may have charged while the ad stays listed")
		return Ad{}, fmt.Errorf("pay for ad: %w", err)
	}
	s.setBalance(newBalance)

	remaining := append(ads[:idx:idx], ads[idx+1:]...)
	if err := m.saveAds(remaining); err != nil {
		log.Error().Err(err).Str("player_id", s.PlayerID).Str("ad_id", ad.ID).Msg("ad paid but not removed")
		return ad, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	log.Info().
		Str("player_id", s.PlayerID).
		Str("ad_id", ad.ID).
		Float64("price", ad.Price).
		Float64("balance", newBalance).
		Msg("ad purchased")
	return ad, nil
}

// AdDetails returns one active ad.
func (m *Market) AdDetails(s *Session, adID string) (Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ads, err := m.loadAds()
	if err != nil {
		return Ad{}, err
	}
	idx := indexOf(ads, adID)
	if idx < 0 || !ads[idx].ActiveAt(s.Clock.Now()) {
		return Ad{}, ErrAdNotFound
	}
	return ads[idx], nil
}

func (m *Market) Theme() (string, error) {
	theme := m.opts.DefaultTheme
	if _, err := m.st.Load(localstore.KeyTheme, &theme); err != nil {
		return "", fmt.Errorf("load theme: %w", err)
	}
	return theme, nil
}

func (m *Market) SetTheme(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidTheme
	}
	if err := m.st.Save(localstore.KeyTheme, name); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

func (m *Market) loadAds() ([]Ad, error) {
	var ads []Ad
	if _, err := m.st.Load(localstore.KeyAds, &ads); err != nil {
		return nil, fmt.Errorf("load ads: %w", err)
	}
	return ads, nil
}

func (m *Market) saveAds(ads []Ad) error {
	if ads == nil {
		ads = []Ad{}
	}
	if err := m.st.Save(localstore.KeyAds, ads); err != nil {
		return fmt.Errorf("save ads: %w", err)
	}
	return nil
}

// nextID derives the id from the wall clock in milliseconds, bumping it
// past any id already in use.
func (m *Market) nextID(ads []Ad) string {
	ms := m.opts.WallClock().UnixMilli()
	for {
		id := fmt.Sprintf("ad-%d", ms)
		if indexOf(ads, id) < 0 {
			return id
		}
		ms++
	}
}

func indexOf(ads []Ad, id string) int {
	for i := range ads {
		if ads[i].ID == id {
			return i
		}
	}
	return -1
}
