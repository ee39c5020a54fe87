// Package trip defines the trip-pricing boundary and an in-process
// simulator standing in for a real pricing service.
package trip

import (
	"context"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Provider is one priced trip offer.
type Provider struct {
	Name   string    `json:"name"`
	Price  float64   `json:"price"`
	TripID uuid.UUID `json:"tripId"`
}

// Quote carries the inputs a pricing service needs for one user.
type Quote struct {
	UserID           uuid.UUID
	NumberOfAdults   int
	NumberOfChildren int
	TripDuration     int
	RewardPoints     int
}

// Pricer produces trip offers for a quote request.
type Pricer interface {
	Price(ctx context.Context, apiKey string, q Quote) ([]Provider, error)
}

// TargetDealCount is the number of offers the engine always hands back,
// padding or truncating whatever the pricer returned.
const TargetDealCount = 10

// PadToCount cyclically repeats offers until at least n entries exist,
// then truncates to exactly n. The input is never mutated. An empty input
// yields an empty result since there is nothing to repeat.
func PadToCount(offers []Provider, n int) []Provider {
	if len(offers) == 0 || n <= 0 {
		return nil
	}
	out := make([]Provider, 0, n)
	for i := 0; len(out) < n; i++ {
		out = append(out, offers[i%len(offers)])
	}
	return out
}

var providerNames = []string{
	"Holiday Travels",
	"Enterprize Ventures Limited",
	"Sunny Days",
	"FlyAway Trips",
	"United Partners Vacation",
	"Dream Trips",
	"Live Free",
	"Dancing Waves Cruselines and Partners",
	"AdventureCo",
	"Cure-Your-Blues",
}

// Simulator is an in-process Pricer. Prices scale with the party size and
// duration and shrink with accumulated reward points.
type Simulator struct{}

// NewSimulator constructs a Simulator.
func NewSimulator() *Simulator {
	return &Simulator{}
}

// Price returns between five and ten offers for the quote.
func (s *Simulator) Price(_ context.Context, _ string, q Quote) ([]Provider, error) {
	count := 5 + rand.IntN(6)

	adults := max(q.NumberOfAdults, 1)
	duration := max(q.TripDuration, 1)

	offers := make([]Provider, 0, count)
	for i := 0; i < count; i++ {
		nightly := 120 + rand.Float64()*180
		price := nightly*float64(duration)*float64(adults) +
			60*float64(q.NumberOfChildren) -
			float64(q.RewardPoints)
		if price < 0 {
			price = 0
		}
		offers = append(offers, Provider{
			Name:   providerNames[i%len(providerNames)],
			Price:  price,
			TripID: uuid.New(),
		})
	}
	return offers, nil
}
