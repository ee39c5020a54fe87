package gps

import (
	"time"

	"github.com/google/uuid"

	"github.com/neexbeast/tourguide/internal/geo"
)

// Attraction is a named point of interest with fixed coordinates.
// Attractions are owned by the location provider and read-only here.
type Attraction struct {
	ID       uuid.UUID    `json:"attractionId"`
	Name     string       `json:"attractionName"`
	City     string       `json:"city"`
	State    string       `json:"state"`
	Location geo.Location `json:"location"`
}

// VisitedLocation is a single recorded position of a user. Immutable once
// created.
type VisitedLocation struct {
	UserID   uuid.UUID    `json:"userId"`
	Location geo.Location `json:"location"`
	Time     time.Time    `json:"timeVisited"`
}
