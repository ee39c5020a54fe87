// Package rewards awards users points for attractions they have visited
// within a proximity radius, at most one reward per attraction per user.
package rewards

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neexbeast/tourguide/internal/geo"
	"github.com/neexbeast/tourguide/internal/gps"
	"github.com/neexbeast/tourguide/internal/user"
)

// AttractionSource supplies the attraction catalog. Satisfied by the gps
// provider directly or by the cache-backed catalog.
type AttractionSource interface {
	Attractions(ctx context.Context) ([]gps.Attraction, error)
}

// Service is the reward accumulator.
type Service struct {
	attractions AttractionSource
	oracle      Oracle
	log         *slog.Logger
}

// NewService constructs a Service.
func NewService(attractions AttractionSource, oracle Oracle, log *slog.Logger) *Service {
	return &Service{attractions: attractions, oracle: oracle, log: log}
}

// RewardPoints asks the oracle what one attraction is worth to one user.
func (s *Service) RewardPoints(ctx context.Context, attraction gps.Attraction, u *user.User) (int, error) {
	points, err := s.oracle.AttractionRewardPoints(ctx, attraction.ID, u.ID)
	if err != nil {
		return 0, fmt.Errorf("looking up points for attraction %s: %w", attraction.Name, err)
	}
	return points, nil
}

// ComputeRewards walks the user's visit history against every attraction
// not yet rewarded and awards points for each visit within radius miles.
// The radius is an explicit argument on purpose: it keeps concurrent
// computations with different radii from racing on shared state.
//
// The history is snapshotted up front, so a tracker appending to it
// mid-computation is harmless. An oracle failure skips only that single
// attraction/location pairing; the rest of the pass continues. Safe to
// call repeatedly and concurrently for different users.
func (s *Service) ComputeRewards(ctx context.Context, u *user.User, radius float64) error {
	attractions, err := s.attractions.Attractions(ctx)
	if err != nil {
		return fmt.Errorf("fetching attractions for user %s: %w", u.Name, err)
	}

	for _, visited := range u.VisitedLocations() {
		for _, attraction := range attractions {
			if u.HasRewardFor(attraction.ID) {
				continue
			}
			if !geo.WithinRadius(attraction.Location, visited.Location, radius) {
				continue
			}

			points, err := s.oracle.AttractionRewardPoints(ctx, attraction.ID, u.ID)
			if err != nil {
				s.log.Warn("reward points lookup failed",
					"user", u.Name, "attraction", attraction.Name, "err", err)
				continue
			}

			u.AddReward(user.Reward{
				VisitedLocation: visited,
				Attraction:      attraction,
				Points:          points,
			})
		}
	}

	return nil
}
