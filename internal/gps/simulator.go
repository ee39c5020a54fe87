package gps

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/neexbeast/tourguide/internal/geo"
)

// Latitude bounds match the Web Mercator projection, so simulated points
// always land on a renderable map.
const (
	maxLatitude = 85.05112878
	minLatitude = -85.05112878
)

// Simulator is an in-process Provider that serves a fixed attraction
// catalog and invents a fresh random position on every UserLocation call.
type Simulator struct {
	attractions []Attraction
}

// NewSimulator constructs a Simulator with the built-in catalog.
func NewSimulator() *Simulator {
	return &Simulator{attractions: catalog()}
}

// Attractions returns the full catalog. The slice is a copy; callers may
// sort it freely.
func (s *Simulator) Attractions(_ context.Context) ([]Attraction, error) {
	out := make([]Attraction, len(s.attractions))
	copy(out, s.attractions)
	return out, nil
}

// UserLocation returns a random current position for the given user,
// stamped with the current time.
func (s *Simulator) UserLocation(_ context.Context, userID uuid.UUID) (VisitedLocation, error) {
	return VisitedLocation{
		UserID: userID,
		Location: geo.Location{
			Latitude:  minLatitude + rand.Float64()*(maxLatitude-minLatitude),
			Longitude: -180 + rand.Float64()*360,
		},
		Time: time.Now(),
	}, nil
}

func catalog() []Attraction {
	entries := []struct {
		name, city, state string
		lat, lon          float64
	}{
		{"Disneyland", "Anaheim", "CA", 33.817595, -117.922008},
		{"Jackson Hole", "Jackson Hole", "WY", 43.582767, -110.821999},
		{"Mojave National Preserve", "Kelso", "CA", 35.141689, -115.510399},
		{"Joshua Tree National Park", "Joshua Tree National Park", "CA", 33.881866, -115.90065},
		{"Buffalo National River", "St Joe", "AR", 35.985512, -92.757652},
		{"Hot Springs National Park", "Hot Springs", "AR", 34.52153, -93.042267},
		{"Kartchner Caverns State Park", "Benson", "AZ", 31.837551, -110.347382},
		{"Legend Valley", "Thornville", "OH", 39.937778, -82.40667},
		{"Flowers Bakery of London", "Flowers Bakery of London", "KY", 37.131527, -84.07486},
		{"McKinley Tower", "Anchorage", "AK", 61.218887, -149.877502},
		{"Flatiron Building", "New York City", "NY", 40.741112, -73.989723},
		{"Fallingwater", "Mill Run", "PA", 39.906113, -79.468056},
		{"Union Station", "Washington D.C.", "CA", 38.897095, -77.006332},
		{"Roger Dean Stadium", "Jupiter", "FL", 26.890959, -80.116577},
		{"Texas Memorial Stadium", "Austin", "TX", 30.283682, -97.732536},
		{"Bryant-Denny Stadium", "Tuscaloosa", "AL", 33.208973, -87.550438},
		{"Tiger Stadium", "Baton Rouge", "LA", 30.412035, -91.183815},
		{"Neyland Stadium", "Knoxville", "TN", 35.955013, -83.925011},
		{"Kyle Field", "College Station", "TX", 30.61025, -96.340008},
		{"San Diego Zoo", "San Diego", "CA", 32.735317, -117.149048},
		{"Zoo Tampa at Lowry Park", "Tampa", "FL", 28.013056, -82.469444},
		{"Franklin Park Zoo", "Boston", "MA", 42.302601, -71.086731},
		{"El Paso Zoo", "El Paso", "TX", 31.769125, -106.44487},
		{"Kansas City Zoo", "Kansas City", "MO", 39.007504, -94.529625},
		{"St. Louis Zoo", "St. Louis", "MO", 38.635345, -90.293419},
		{"Cincinnati Zoo & Botanical Garden", "Cincinnati", "OH", 39.144905, -84.50847},
	}

	attractions := make([]Attraction, 0, len(entries))
	for _, e := range entries {
		attractions = append(attractions, Attraction{
			ID:       uuid.New(),
			Name:     e.name,
			City:     e.city,
			State:    e.state,
			Location: geo.Location{Latitude: e.lat, Longitude: e.lon},
		})
	}
	return attractions
}
