package market

import (
	"errors"
	"testing"
	"time"
)

func TestClockAdvancePersists(t *testing.T) {
	st := openState(t)
	c, err := LoadClock(st, 60, simStart)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !c.Now().Equal(simStart) || c.TimeScale() != 60 {
		t.Fatalf("fresh clock = %s x%d", c.Now(), c.TimeScale())
	}
	for i := 0; i < 3; i++ {
		if _, err := c.Advance(); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	if err := c.SetTimeScale(3600); err != nil {
		t.Fatalf("set scale: %v", err)
	}

	restored, err := LoadClock(st, 60, simStart.Add(-time.Hour))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if want := simStart.Add(3 * time.Minute); !restored.Now().Equal(want) {
		t.Fatalf("restored time = %s, want %s", restored.Now(), want)
	}
	if restored.TimeScale() != 3600 {
		t.Fatalf("restored scale = %d", restored.TimeScale())
	}
	next, err := restored.Advance()
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if want := simStart.Add(3*time.Minute + time.Hour); !next.Equal(want) {
		t.Fatalf("after advance = %s, want %s", next, want)
	}
}

func TestClockRejectsNonPositiveScale(t *testing.T) {
	c, err := LoadClock(openState(t), 60, simStart)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, scale := range []int{0, -10} {
		if err := c.SetTimeScale(scale); !errors.Is(err, ErrInvalidTimeScale) {
			t.Fatalf("scale %d: expected ErrInvalidTimeScale, got %v", scale, err)
		}
	}
	if c.TimeScale() != 60 {
		t.Fatalf("scale changed to %d", c.TimeScale())
	}
}

func TestDaysLeftRoundsDown(t *testing.T) {
	ad := testDraft(5).build("ad-1", simStart)
	tests := []struct {
		now  time.Time
		want int
	}{
		{simStart, 5},
		{simStart.Add(time.Second), 4},
		{simStart.Add(4*24*time.Hour + 23*time.Hour), 0},
		{ad.ExpirationDate, 0},
	}
	for _, tt := range tests {
		if got := ad.DaysLeft(tt.now); got != tt.want {
			t.Fatalf("DaysLeft(%s) = %d, want %d", tt.now, got, tt.want)
		}
	}
	if ad.ActiveAt(ad.ExpirationDate) {
		t.Fatal("ad must not be active at its expiration instant")
	}
}
