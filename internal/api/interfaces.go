package api

import (
	"context"

	"github.com/neexbeast/tourguide/internal/geo"
	"github.com/neexbeast/tourguide/internal/gps"
	"github.com/neexbeast/tourguide/internal/trip"
	"github.com/neexbeast/tourguide/internal/user"
)

// Engine defines the guide-service operations needed by handlers.
type Engine interface {
	GetUser(name string) (*user.User, error)
	GetUserLocation(ctx context.Context, u *user.User) (gps.VisitedLocation, error)
	GetUserRewards(u *user.User) []user.Reward
	NearbyAttractions(ctx context.Context, loc geo.Location, n int) ([]gps.Attraction, error)
	AttractionRewardPoints(ctx context.Context, attraction gps.Attraction, u *user.User) (int, error)
	GetTripDeals(ctx context.Context, u *user.User) ([]trip.Provider, error)
}
