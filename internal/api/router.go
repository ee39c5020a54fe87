package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// NewRouter builds and returns the Chi router with all routes configured.
// The index and health endpoints are unauthenticated; all user routes
// require bearer auth. Rate limiting is applied globally: 60 requests per
// minute per IP.
func NewRouter(handlers *Handlers, token string, redisClient redisPinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/", handlers.Index)
	r.Get("/api/v1/health", HealthHandlerFunc(redisClient, log))

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(token))
		r.Get("/api/v1/users/{userName}/location", handlers.GetLocation)
		r.Get("/api/v1/users/{userName}/rewards", handlers.GetRewards)
		r.Get("/api/v1/users/{userName}/nearby-attractions", handlers.GetNearbyAttractions)
		r.Get("/api/v1/users/{userName}/trip-deals", handlers.GetTripDeals)
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
