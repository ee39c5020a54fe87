// Package gps defines the location-provider boundary and an in-process
// simulator standing in for a real GPS service.
package gps

import (
	"context"

	"github.com/google/uuid"
)

// Provider is the source of truth for attractions and current user
// positions.
type Provider interface {
	Attractions(ctx context.Context) ([]Attraction, error)
	UserLocation(ctx context.Context, userID uuid.UUID) (VisitedLocation, error)
}
