// Package guide is the engine tying the collaborators together: it
// tracks users, accumulates their rewards, serves nearby-attraction and
// trip-deal queries, and owns the background tracker and the bulk passes.
package guide

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/neexbeast/tourguide/internal/batch"
	"github.com/neexbeast/tourguide/internal/geo"
	"github.com/neexbeast/tourguide/internal/gps"
	"github.com/neexbeast/tourguide/internal/rewards"
	"github.com/neexbeast/tourguide/internal/tracker"
	"github.com/neexbeast/tourguide/internal/trip"
	"github.com/neexbeast/tourguide/internal/user"
)

// ErrUserNotFound is returned for lookups of unregistered user names.
var ErrUserNotFound = errors.New("user not found")

// NearbyAttractionCount is how many attractions a nearby query returns,
// distance notwithstanding.
const NearbyAttractionCount = 5

// Config tunes the engine's pools and demo population. Zero values fall
// back to the defaults the performance targets were tuned against.
type Config struct {
	// GPSWorkers bounds concurrent location fetches; location calls are
	// I/O bound, so the default is far above core count.
	GPSWorkers int
	// RewardWorkers bounds concurrent reward computations, on its own
	// pool so slow reward lookups cannot starve location fetches.
	RewardWorkers int
	// BatchSize bounds in-flight work per bulk pass.
	BatchSize int
	// InternalUsers is the demo population generated at construction.
	InternalUsers int
	// TrackerInterval is the pause between background tracking passes.
	TrackerInterval time.Duration
	// TripPricerAPIKey is passed through to the pricing service.
	TripPricerAPIKey string
}

func (c Config) withDefaults() Config {
	if c.GPSWorkers <= 0 {
		c.GPSWorkers = 256
	}
	if c.RewardWorkers <= 0 {
		c.RewardWorkers = 512
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 2000
	}
	if c.TripPricerAPIKey == "" {
		c.TripPricerAPIKey = "test-server-api-key"
	}
	return c
}

// Service is the engine surface exposed to the HTTP layer.
type Service struct {
	cfg      Config
	provider gps.Provider
	catalog  rewards.AttractionSource
	rewards  *rewards.Service
	pricer   trip.Pricer
	registry *user.Registry
	tracker  *tracker.Tracker
	log      *slog.Logger
}

// New wires the engine. The attraction catalog is read through source
// (cache-backed in production); the tracker is constructed idle and only
// runs once StartTracker is called. When cfg.InternalUsers is positive, a
// demo population with generated location history is registered.
func New(cfg Config, provider gps.Provider, catalog rewards.AttractionSource,
	oracle rewards.Oracle, pricer trip.Pricer, log *slog.Logger) *Service {
	cfg = cfg.withDefaults()

	s := &Service{
		cfg:      cfg,
		provider: provider,
		catalog:  catalog,
		rewards:  rewards.NewService(catalog, oracle, log),
		pricer:   pricer,
		registry: user.NewRegistry(),
		log:      log,
	}
	s.tracker = tracker.New(s.registry, s, cfg.TrackerInterval, tracker.DefaultStopTimeout, log)

	if cfg.InternalUsers > 0 {
		s.generateInternalUsers(cfg.InternalUsers)
		log.Info("internal users generated", "count", cfg.InternalUsers)
	}

	return s
}

// AddUser registers the user; no-op if the name is already taken.
func (s *Service) AddUser(u *user.User) {
	s.registry.Add(u)
}

// GetUser returns the registered user or ErrUserNotFound.
func (s *Service) GetUser(name string) (*user.User, error) {
	u := s.registry.Get(name)
	if u == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, name)
	}
	return u, nil
}

// AllUsers returns a snapshot of the registered population.
func (s *Service) AllUsers() []*user.User {
	return s.registry.All()
}

// GetUserRewards returns the rewards computed so far for the user.
func (s *Service) GetUserRewards(u *user.User) []user.Reward {
	return u.Rewards()
}

// TrackUser fetches the user's current location, appends it to their
// history, and computes any newly earned rewards.
func (s *Service) TrackUser(ctx context.Context, u *user.User) (gps.VisitedLocation, error) {
	visited, err := s.fetchLocation(ctx, u)
	if err != nil {
		return gps.VisitedLocation{}, err
	}
	if err := s.rewards.ComputeRewards(ctx, u, geo.DefaultProximityRadius); err != nil {
		return gps.VisitedLocation{}, err
	}
	return visited, nil
}

// GetUserLocation returns the user's last known location, tracking them
// now if they have no history yet.
func (s *Service) GetUserLocation(ctx context.Context, u *user.User) (gps.VisitedLocation, error) {
	if last, ok := u.LastVisitedLocation(); ok {
		return last, nil
	}
	return s.TrackUser(ctx, u)
}

// NearbyAttractions returns the n attractions closest to loc, ascending
// by distance, however far away they are.
func (s *Service) NearbyAttractions(ctx context.Context, loc geo.Location, n int) ([]gps.Attraction, error) {
	attractions, err := s.catalog.Attractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching attractions: %w", err)
	}

	sort.Slice(attractions, func(i, j int) bool {
		return geo.Distance(attractions[i].Location, loc) < geo.Distance(attractions[j].Location, loc)
	})

	if n < len(attractions) {
		attractions = attractions[:n]
	}
	return attractions, nil
}

// AttractionRewardPoints reports what the attraction would be worth to
// the user, for display alongside nearby attractions.
func (s *Service) AttractionRewardPoints(ctx context.Context, attraction gps.Attraction, u *user.User) (int, error) {
	return s.rewards.RewardPoints(ctx, attraction, u)
}

// GetTripDeals prices a trip for the user against their accumulated
// reward points and always hands back exactly trip.TargetDealCount
// offers, cyclically repeating the pricer's list when it is short.
func (s *Service) GetTripDeals(ctx context.Context, u *user.User) ([]trip.Provider, error) {
	offers, err := s.pricer.Price(ctx, s.cfg.TripPricerAPIKey, trip.Quote{
		UserID:           u.ID,
		NumberOfAdults:   u.Preferences.NumberOfAdults,
		NumberOfChildren: u.Preferences.NumberOfChildren,
		TripDuration:     u.Preferences.TripDuration,
		RewardPoints:     u.RewardPoints(),
	})
	if err != nil {
		return nil, fmt.Errorf("pricing trip for user %s: %w", u.Name, err)
	}

	deals := trip.PadToCount(offers, trip.TargetDealCount)
	u.SetTripDeals(deals)
	return deals, nil
}

// TrackAllUsers fetches a fresh location for every registered user,
// batched on the GPS pool, without computing rewards. Per-user failures
// are joined into the returned error after the full pass.
func (s *Service) TrackAllUsers(ctx context.Context) error {
	users := s.registry.All()
	return batch.Run(ctx, len(users), s.cfg.BatchSize, s.cfg.GPSWorkers, func(ctx context.Context, i int) error {
		_, err := s.fetchLocation(ctx, users[i])
		return err
	})
}

// ComputeAllRewards recomputes rewards for every registered user, batched
// on the reward pool.
func (s *Service) ComputeAllRewards(ctx context.Context, radius float64) error {
	users := s.registry.All()
	return batch.Run(ctx, len(users), s.cfg.BatchSize, s.cfg.RewardWorkers, func(ctx context.Context, i int) error {
		return s.rewards.ComputeRewards(ctx, users[i], radius)
	})
}

// StartTracker begins the periodic background tracking of all users.
func (s *Service) StartTracker() error {
	return s.tracker.Start()
}

// StopTracker stops the background tracker, waiting out at most the
// shutdown bound. The tracker cannot be restarted afterwards.
func (s *Service) StopTracker() bool {
	return s.tracker.Stop()
}

// TrackerPasses reports completed background passes.
func (s *Service) TrackerPasses() int64 {
	return s.tracker.Passes()
}

func (s *Service) fetchLocation(ctx context.Context, u *user.User) (gps.VisitedLocation, error) {
	visited, err := s.provider.UserLocation(ctx, u.ID)
	if err != nil {
		return gps.VisitedLocation{}, fmt.Errorf("fetching location for user %s: %w", u.Name, err)
	}
	u.AddVisitedLocation(visited)
	return visited, nil
}
