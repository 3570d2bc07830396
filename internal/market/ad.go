package market

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const day = 24 * time.Hour

// Ad is a vehicle listing kept in the client's local store.
type Ad struct {
	ID              string    `json:"id"`
	Model           string    `json:"model"`
	Year            int       `json:"year"`
	Mileage         int       `json:"mileage"`
	Color           string    `json:"color"`
	State           string    `json:"state"`
	Price           float64   `json:"price"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	PublicationDate time.Time `json:"publicationDate"`
	ExpirationDate  time.Time `json:"expirationDate"`
	DurationDays    int       `json:"durationDays"`
}

// ActiveAt reports whether the ad is still listed at the given simulated time.
func (a Ad) ActiveAt(now time.Time) bool {
	return a.ExpirationDate.After(now)
}

// DaysLeft is the number of whole simulated days before expiry.
func (a Ad) DaysLeft(now time.Time) int {
	remaining := a.ExpirationDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(remaining / day)
}

// AdDraft is what a seller fills in before paying for publication.
type AdDraft struct {
	Model        string
	Year         int
	Mileage      int
	Color        string
	State        string
	Price        float64
	ImageURL     string
	DurationDays int
}

func (d AdDraft) validate(maxDays int) error {
	switch {
	case strings.TrimSpace(d.Model) == "":
		return fmt.Errorf("%w: model is required", ErrInvalidAd)
	case d.DurationDays < 1 || d.DurationDays > maxDays:
		return fmt.Errorf("%w: duration must be between 1 and %d days", ErrInvalidAd, maxDays)
	case d.Price <= 0 || math.IsNaN(d.Price) || math.IsInf(d.Price, 0):
		return fmt.Errorf("%w: price must be positive", ErrInvalidAd)
	case d.Year < 0 || d.Mileage < 0:
		return fmt.Errorf("%w: year and mileage must not be negative", ErrInvalidAd)
	}
	return nil
}

func (d AdDraft) build(id string, publishedAt time.Time) Ad {
	return Ad{
		ID:              id,
		Model:           strings.TrimSpace(d.Model),
		Year:            d.Year,
		Mileage:         d.Mileage,
		Color:           d.Color,
		State:           d.State,
		Price:           d.Price,
		ImageURL:        strings.TrimSpace(d.ImageURL),
		PublicationDate: publishedAt,
		ExpirationDate:  publishedAt.Add(time.Duration(d.DurationDays) * day),
		DurationDays:    d.DurationDays,
	}
}

type Pricing struct {
	BaseCost   float64
	CostPerDay float64
	MaxDays    int
}

var DefaultPricing = Pricing{BaseCost: 50, CostPerDay: 10, MaxDays: 30}

// Cost is the publication fee for an ad listed for the given number of days.
func (p Pricing) Cost(days int) float64 {
	return p.BaseCost + p.CostPerDay*float64(days)
}
