package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/neexbeast/tourguide/internal/geo"
	"github.com/neexbeast/tourguide/internal/guide"
	"github.com/neexbeast/tourguide/internal/user"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	engine Engine
	log    *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(engine Engine, log *slog.Logger) *Handlers {
	return &Handlers{engine: engine, log: log}
}

// NearbyAttraction is the payload for one entry of the nearby-attractions
// endpoint.
type NearbyAttraction struct {
	AttractionName      string  `json:"attractionName"`
	AttractionLatitude  float64 `json:"attractionLatitude"`
	AttractionLongitude float64 `json:"attractionLongitude"`
	UserLatitude        float64 `json:"userLatitude"`
	UserLongitude       float64 `json:"userLongitude"`
	Distance            float64 `json:"distance"`
	RewardPoints        int     `json:"rewardPoints"`
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handlers) writeUserError(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, guide.ErrUserNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found: " + name})
		return
	}
	h.log.Error("request failed", "user", name, "err", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// Index handles GET /.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Greetings from TourGuide!"})
}

// GetLocation handles GET /api/v1/users/{userName}/location.
func (h *Handlers) GetLocation(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "userName")

	u, err := h.engine.GetUser(name)
	if err != nil {
		h.writeUserError(w, name, err)
		return
	}

	visited, err := h.engine.GetUserLocation(r.Context(), u)
	if err != nil {
		h.writeUserError(w, name, err)
		return
	}

	writeJSON(w, http.StatusOK, visited)
}

// GetRewards handles GET /api/v1/users/{userName}/rewards.
func (h *Handlers) GetRewards(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "userName")

	u, err := h.engine.GetUser(name)
	if err != nil {
		h.writeUserError(w, name, err)
		return
	}

	rewards := h.engine.GetUserRewards(u)
	if rewards == nil {
		rewards = []user.Reward{}
	}
	writeJSON(w, http.StatusOK, rewards)
}

// GetNearbyAttractions handles GET /api/v1/users/{userName}/nearby-attractions.
// Returns the five closest attractions to the user's last known location,
// sorted ascending by distance, with the user's potential points for each.
func (h *Handlers) GetNearbyAttractions(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "userName")

	u, err := h.engine.GetUser(name)
	if err != nil {
		h.writeUserError(w, name, err)
		return
	}

	visited, err := h.engine.GetUserLocation(r.Context(), u)
	if err != nil {
		h.writeUserError(w, name, err)
		return
	}

	nearby, err := h.engine.NearbyAttractions(r.Context(), visited.Location, guide.NearbyAttractionCount)
	if err != nil {
		h.writeUserError(w, name, err)
		return
	}

	out := make([]NearbyAttraction, 0, len(nearby))
	for _, a := range nearby {
		points, err := h.engine.AttractionRewardPoints(r.Context(), a, u)
		if err != nil {
			h.log.Warn("reward points lookup failed", "attraction", a.Name, "err", err)
		}
		out = append(out, NearbyAttraction{
			AttractionName:      a.Name,
			AttractionLatitude:  a.Location.Latitude,
			AttractionLongitude: a.Location.Longitude,
			UserLatitude:        visited.Location.Latitude,
			UserLongitude:       visited.Location.Longitude,
			Distance:            geo.Distance(a.Location, visited.Location),
			RewardPoints:        points,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// GetTripDeals handles GET /api/v1/users/{userName}/trip-deals.
func (h *Handlers) GetTripDeals(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "userName")

	u, err := h.engine.GetUser(name)
	if err != nil {
		h.writeUserError(w, name, err)
		return
	}

	deals, err := h.engine.GetTripDeals(r.Context(), u)
	if err != nil {
		h.writeUserError(w, name, err)
		return
	}

	writeJSON(w, http.StatusOK, deals)
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that checks redis
// connectivity; returns 200 when ok, 503 otherwise.
func HealthHandlerFunc(redis redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		redisStatus := "ok"

		if err := redis.Ping(ctx); err != nil {
			log.Error("health check: redis ping failed", "err", err)
			redisStatus = "error"
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, map[string]string{
			"status": func() string {
				if status == http.StatusOK {
					return "ok"
				}
				return "degraded"
			}(),
			"redis": redisStatus,
		})
	}
}
