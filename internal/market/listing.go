package market

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
)

type Listing struct {
	Ad       Ad
	DaysLeft int
}

// ActiveListings returns the ads still active at the session's simulated
// time and removes expired ones from the store.
func (m *Market) ActiveListings(s *Session) ([]Listing, error) {
	now := s.Clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	ads, err := m.loadAds()
	if err != nil {
		return nil, err
	}
	active := make([]Ad, 0, len(ads))
	listings := make([]Listing, 0, len(ads))
	for _, ad := range ads {
		if !ad.ActiveAt(now) {
			continue
		}
		active = append(active, ad)
		listings = append(listings, Listing{Ad: ad, DaysLeft: ad.DaysLeft(now)})
	}
	if pruned := len(ads) - len(active); pruned > 0 {
		if err := m.saveAds(active); err != nil {
			return nil, err
		}
		log.Debug().Int("pruned", pruned).Time("sim_time", now).Msg("expired ads removed")
	}
	return listings, nil
}

// Render writes the header and the active listings as a text table.
func (m *Market) Render(w io.Writer, s *Session) error {
	listings, err := m.ActiveListings(s)
	if err != nil {
		return err
	}
	now := s.Clock.Now()

	header := "Balance: not loaded"
	if bal, ok := s.Balance(); ok {
		header = fmt.Sprintf("Balance: %.2f $", bal)
	}
	fmt.Fprintf(w, "%s | %s | x%d\n", header, now.Format(time.RFC3339), s.Clock.TimeScale())
	if len(listings) == 0 {
		_, err := fmt.Fprintln(w, "No active listings.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMODEL\tYEAR\tMILEAGE\tSTATE\tPRICE\tLEFT")
	for _, l := range listings {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d km\t%s\t%.2f $\t%d d.\n",
			l.Ad.ID, l.Ad.Model, l.Ad.Year, l.Ad.Mileage, l.Ad.State, l.Ad.Price, l.DaysLeft)
	}
	return tw.Flush()
}

// RenderDetails writes every field of one ad.
func RenderDetails(w io.Writer, ad Ad, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", ad.ID)
	fmt.Fprintf(tw, "Model:\t%s\n", ad.Model)
	fmt.Fprintf(tw, "Year:\t%d\n", ad.Year)
	fmt.Fprintf(tw, "Mileage:\t%d km\n", ad.Mileage)
	fmt.Fprintf(tw, "Color:\t%s\n", ad.Color)
	fmt.Fprintf(tw, "State:\t%s\n", ad.State)
	fmt.Fprintf(tw, "Price:\t%.2f $\n", ad.Price)
	if ad.ImageURL != "" {
		fmt.Fprintf(tw, "Image:\t%s\n", ad.ImageURL)
	}
	fmt.Fprintf(tw, "Published:\t%s\n", ad.PublicationDate.Format(time.RFC3339))
	fmt.Fprintf(tw, "Expires:\t%s (%d d. left)\n", ad.ExpirationDate.Format(time.RFC3339), ad.DaysLeft(now))
	return tw.Flush()
}
