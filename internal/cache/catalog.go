// Package cache keeps the attraction catalog in Redis so that reward
// passes and nearby queries do not hit the location provider on every
// call. The catalog changes rarely; a TTL keeps it honest.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/tourguide/internal/gps"
)

const catalogKey = "tourguide:attractions"

const defaultTTL = time.Hour

// Connect parses redisURL, creates a client, and verifies connectivity
// with a ping.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

// AttractionSource is the upstream the catalog falls back to. Satisfied
// by the gps provider.
type AttractionSource interface {
	Attractions(ctx context.Context) ([]gps.Attraction, error)
}

// Catalog is a read-through attraction cache. Redis failures degrade to a
// direct provider call; only a provider failure is an error.
type Catalog struct {
	client *redis.Client
	source AttractionSource
	ttl    time.Duration
	log    *slog.Logger
}

// NewCatalog constructs a Catalog with a 1-hour TTL.
func NewCatalog(client *redis.Client, source AttractionSource, log *slog.Logger) *Catalog {
	return &Catalog{client: client, source: source, ttl: defaultTTL, log: log}
}

// Attractions returns the cached catalog, filling the cache from the
// provider on a miss.
func (c *Catalog) Attractions(ctx context.Context) ([]gps.Attraction, error) {
	val, err := c.client.Get(ctx, catalogKey).Result()
	if err == nil {
		var attractions []gps.Attraction
		decodeErr := json.Unmarshal([]byte(val), &attractions)
		if decodeErr == nil {
			return attractions, nil
		}
		// Undecodable payload counts as a miss and gets overwritten.
		c.log.Warn("discarding corrupt cached catalog", "err", decodeErr)
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn("catalog cache read failed", "err", err)
	}

	attractions, err := c.source.Attractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching attractions from provider: %w", err)
	}

	if b, err := json.Marshal(attractions); err != nil {
		c.log.Warn("marshaling catalog for cache failed", "err", err)
	} else if err := c.client.Set(ctx, catalogKey, b, c.ttl).Err(); err != nil {
		c.log.Warn("catalog cache write failed", "err", err)
	}

	return attractions, nil
}

// Invalidate drops the cached catalog so the next read refetches.
func (c *Catalog) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("invalidating catalog cache: %w", err)
	}
	return nil
}
