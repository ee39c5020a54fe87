// Package user holds the user data model and the in-memory registry.
//
// A User is shared between the background tracker and direct API callers,
// so every mutation and every read of its history goes through a mutex and
// reads hand out snapshots, never live slices.
package user

import (
	"sync"

	"github.com/google/uuid"

	"github.com/neexbeast/tourguide/internal/gps"
	"github.com/neexbeast/tourguide/internal/trip"
)

// Preferences are the trip parameters used for pricing. Opaque to the
// tracking engine.
type Preferences struct {
	TripDuration     int `json:"tripDuration"`
	TicketQuantity   int `json:"ticketQuantity"`
	NumberOfAdults   int `json:"numberOfAdults"`
	NumberOfChildren int `json:"numberOfChildren"`
}

// DefaultPreferences mirror a single adult on a one-day trip.
func DefaultPreferences() Preferences {
	return Preferences{
		TripDuration:   1,
		TicketQuantity: 1,
		NumberOfAdults: 1,
	}
}

// Reward is one earned reward: the visit that triggered it, the attraction
// it is for, and the points granted. A user holds at most one Reward per
// attraction identity.
type Reward struct {
	VisitedLocation gps.VisitedLocation `json:"visitedLocation"`
	Attraction      gps.Attraction      `json:"attraction"`
	Points          int                 `json:"rewardPoints"`
}

// User is one tracked user. The zero value is not usable; construct with
// New.
type User struct {
	ID          uuid.UUID
	Name        string
	Phone       string
	Email       string
	Preferences Preferences

	mu               sync.Mutex
	visitedLocations []gps.VisitedLocation
	rewards          []Reward
	tripDeals        []trip.Provider
}

// New constructs a User with default preferences and empty history.
func New(id uuid.UUID, name, phone, email string) *User {
	return &User{
		ID:          id,
		Name:        name,
		Phone:       phone,
		Email:       email,
		Preferences: DefaultPreferences(),
	}
}

// AddVisitedLocation appends a visit to the user's history. Appends keep
// arrival order, so the history stays chronological per writer.
func (u *User) AddVisitedLocation(v gps.VisitedLocation) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.visitedLocations = append(u.visitedLocations, v)
}

// VisitedLocations returns a snapshot of the user's history, safe to
// iterate while the tracker keeps appending.
func (u *User) VisitedLocations() []gps.VisitedLocation {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]gps.VisitedLocation, len(u.visitedLocations))
	copy(out, u.visitedLocations)
	return out
}

// LastVisitedLocation returns the most recent visit, or ok=false when the
// history is empty.
func (u *User) LastVisitedLocation() (gps.VisitedLocation, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.visitedLocations) == 0 {
		return gps.VisitedLocation{}, false
	}
	return u.visitedLocations[len(u.visitedLocations)-1], true
}

// AddReward stores the reward unless the user already holds one for the
// same attraction identity. Reports whether the reward was added. The
// check and the append happen under one lock, so two concurrent award
// attempts for the same attraction cannot both win.
func (u *User) AddReward(r Reward) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.rewards {
		if existing.Attraction.ID == r.Attraction.ID {
			return false
		}
	}
	u.rewards = append(u.rewards, r)
	return true
}

// HasRewardFor reports whether the user already holds a reward for the
// given attraction identity.
func (u *User) HasRewardFor(attractionID uuid.UUID) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, r := range u.rewards {
		if r.Attraction.ID == attractionID {
			return true
		}
	}
	return false
}

// Rewards returns a snapshot of the user's rewards.
func (u *User) Rewards() []Reward {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]Reward, len(u.rewards))
	copy(out, u.rewards)
	return out
}

// RewardPoints sums the points across all of the user's rewards.
func (u *User) RewardPoints() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	total := 0
	for _, r := range u.rewards {
		total += r.Points
	}
	return total
}

// SetTripDeals stores the most recent priced offers for the user.
func (u *User) SetTripDeals(deals []trip.Provider) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.tripDeals = make([]trip.Provider, len(deals))
	copy(u.tripDeals, deals)
}

// TripDeals returns a snapshot of the stored offers.
func (u *User) TripDeals() []trip.Provider {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]trip.Provider, len(u.tripDeals))
	copy(out, u.tripDeals)
	return out
}
