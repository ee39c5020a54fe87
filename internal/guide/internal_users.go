package guide

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/neexbeast/tourguide/internal/geo"
	"github.com/neexbeast/tourguide/internal/gps"
	"github.com/neexbeast/tourguide/internal/user"
)

// Mercator latitude bounds, same as the location simulator.
const (
	maxGeneratedLatitude = 85.05112878
	minGeneratedLatitude = -85.05112878
)

const historyLength = 3

// generateInternalUsers registers n demo users, each with a short random
// location history spread over the last thirty days.
func (s *Service) generateInternalUsers(n int) {
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("internalUser%d", i)
		u := user.New(uuid.New(), name, "000", name+"@tourguide.com")
		generateLocationHistory(u)
		s.registry.Add(u)
	}
}

func generateLocationHistory(u *user.User) {
	for i := 0; i < historyLength; i++ {
		u.AddVisitedLocation(gps.VisitedLocation{
			UserID: u.ID,
			Location: geo.Location{
				Latitude:  minGeneratedLatitude + rand.Float64()*(maxGeneratedLatitude-minGeneratedLatitude),
				Longitude: -180 + rand.Float64()*360,
			},
			Time: time.Now().AddDate(0, 0, -rand.IntN(30)),
		})
	}
}
