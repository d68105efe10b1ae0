// Package cache provides a Redis-backed cache for geocoding results, so
// repeated lookups of the same address skip the provider round trip.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/propstack/propsearch/internal/domain"
)

const keyPrefix = "propsearch:geo:"

// GeoCache stores resolved geo points keyed by normalized address.
type GeoCache struct {
	client rueidis.Client
	ttl    time.Duration
}

// New connects to Redis and returns a geocode cache.
func New(addrs []string, password string, ttl time.Duration) (*GeoCache, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: addrs,
		Password:    password,
	})
	if err != nil {
		return nil, err
	}
	return &GeoCache{client: client, ttl: ttl}, nil
}

// Get returns the cached point for a location, if present. Cache errors are
// treated as misses.
func (g *GeoCache) Get(ctx context.Context, location string) (domain.GeoPoint, bool) {
	cmd := g.client.B().Get().Key(key(location)).Build()
	data, err := g.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		return domain.GeoPoint{}, false
	}

	var pt domain.GeoPoint
	if err := json.Unmarshal(data, &pt); err != nil {
		return domain.GeoPoint{}, false
	}
	return pt, true
}

// Set stores a resolved point with the configured TTL. Failures are ignored;
// the cache is an optimization, not a source of truth.
func (g *GeoCache) Set(ctx context.Context, location string, pt domain.GeoPoint) {
	data, err := json.Marshal(pt)
	if err != nil {
		return
	}
	cmd := g.client.B().Set().Key(key(location)).Value(string(data)).Ex(g.ttl).Build()
	_ = g.client.Do(ctx, cmd).Error()
}

// Close releases the Redis connection.
func (g *GeoCache) Close() {
	g.client.Close()
}

func key(location string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(location))
}
