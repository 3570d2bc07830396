package market

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog/log"
)

// Tick advances the simulated clock once and re-renders, pruning expired ads.
func (m *Market) Tick(w io.Writer, s *Session) error {
	if _, err := s.Clock.Advance(); err != nil {
		log.Warn().Err(err).Msg("simulated clock not persisted")
	}
	return m.Render(w, s)
}

// Run ticks every interval until ctx is done.
func (m *Market) Run(ctx context.Context, w io.Writer, s *Session, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Tick(w, s); err != nil {
				log.Warn().Err(err).Msg("render listings")
			}
		}
	}
}
