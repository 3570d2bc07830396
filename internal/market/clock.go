package market

import (
	"fmt"
	"sync"
	"time"

	"vehicle-market/internal/localstore"
)

// Clock is the simulated marketplace time. Each Advance moves it forward by
// timeScale simulated seconds; it never moves backwards.
type Clock struct {
	mu    sync.Mutex
	st    StateStore
	now   time.Time
	scale int
}

// LoadClock restores the clock and time scale from st, falling back to
// wallNow and defaultScale when nothing was persisted yet.
func LoadClock(st StateStore, defaultScale int, wallNow time.Time) (*Clock, error) {
	c := &Clock{st: st, now: wallNow, scale: defaultScale}
	if _, err := st.Load(localstore.KeyCurrentTime, &c.now); err != nil {
		return nil, fmt.Errorf("load clock: %w", err)
	}
	if _, err := st.Load(localstore.KeyTimeScale, &c.scale); err != nil {
		return nil, fmt.Errorf("load time scale: %w", err)
	}
	if c.scale <= 0 {
		c.scale = defaultScale
	}
	return c, nil
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) TimeScale() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scale
}

// Advance performs one tick and persists the new time.
func (c *Clock) Advance() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Duration(c.scale) * time.Second)
	if err := c.st.Save(localstore.KeyCurrentTime, c.now); err != nil {
		return c.now, fmt.Errorf("save clock: %w", err)
	}
	return c.now, nil
}

func (c *Clock) SetTimeScale(scale int) error {
	if scale <= 0 {
		return ErrInvalidTimeScale
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.st.Save(localstore.KeyTimeScale, scale); err != nil {
		return fmt.Errorf("save time scale: %w", err)
	}
	c.scale = scale
	return nil
}
