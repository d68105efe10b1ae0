// Package geocode resolves free-form addresses to coordinates through an
// external geocoding provider, with one deterministic regional fallback and
// an optional cache in front of the provider.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/propstack/propsearch/internal/domain"
	"github.com/propstack/propsearch/internal/metrics"
)

const statusOK = "OK"

// Cache short-circuits repeated lookups of the same location. May be nil.
type Cache interface {
	Get(ctx context.Context, location string) (domain.GeoPoint, bool)
	Set(ctx context.Context, location string, pt domain.GeoPoint)
}

// Config holds the provider settings.
type Config struct {
	Endpoint       string
	APIKey         string
	Region         string
	FallbackSuffix string
}

// Service resolves addresses via the provider HTTP API.
type Service struct {
	http   *http.Client
	cfg    Config
	cache  Cache
	logger *zap.Logger
}

// New creates a geocoding service. httpClient may be nil to use the default.
func New(httpClient *http.Client, cfg Config, logger *zap.Logger) *Service {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Service{http: httpClient, cfg: cfg, logger: logger}
}

// WithCache attaches a geocode result cache.
func (s *Service) WithCache(cache Cache) *Service {
	s.cache = cache
	return s
}

// Resolve turns a location string into coordinates. When the provider
// returns a non-OK status or no results, the lookup is retried once with the
// fallback suffix appended before giving up with domain.ErrGeocodeFailed.
func (s *Service) Resolve(ctx context.Context, location string) (domain.GeoPoint, error) {
	if s.cache != nil {
		if pt, ok := s.cache.Get(ctx, location); ok {
			metrics.GeocodeRequestsTotal.WithLabelValues("cache_hit").Inc()
			return pt, nil
		}
	}

	pt, err := s.lookup(ctx, location)
	if err != nil {
		s.logger.Info("retrying with regional fallback",
			zap.String("location", location),
			zap.String("suffix", s.cfg.FallbackSuffix),
		)
		pt, err = s.lookup(ctx, location+s.cfg.FallbackSuffix)
	}
	if err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues("failure").Inc()
		return domain.GeoPoint{}, fmt.Errorf("%w: %q: %w", domain.ErrGeocodeFailed, location, err)
	}

	metrics.GeocodeRequestsTotal.WithLabelValues("success").Inc()
	s.logger.Info("geocoded location",
		zap.String("location", location),
		zap.Float64("latitude", pt.Latitude),
		zap.Float64("longitude", pt.Longitude),
	)

	if s.cache != nil {
		s.cache.Set(ctx, location, pt)
	}
	return pt, nil
}

// providerResponse is the subset of the provider's JSON the service reads.
type providerResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (s *Service) lookup(ctx context.Context, address string) (domain.GeoPoint, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("region", s.cfg.Region)
	q.Set("key", s.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	var body providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if body.Status != statusOK {
		s.logger.Warn("geocoding provider error",
			zap.String("status", body.Status),
			zap.String("error_message", body.ErrorMessage),
		)
		return domain.GeoPoint{}, fmt.Errorf("provider status %s", body.Status)
	}
	if len(body.Results) == 0 {
		return domain.GeoPoint{}, fmt.Errorf("no results")
	}

	loc := body.Results[0].Geometry.Location
	return domain.GeoPoint{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}
