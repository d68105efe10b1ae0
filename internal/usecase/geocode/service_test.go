package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/propstack/propsearch/internal/domain"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(srv.Client(), Config{
		Endpoint:       srv.URL,
		APIKey:         "test-key",
		Region:         "us",
		FallbackSuffix: ", Florida",
	}, zap.NewNop())
}

func okResponse(lat, lng float64) string {
	return fmt.Sprintf(`{"status": "OK", "results": [
		{"geometry": {"location": {"lat": %g, "lng": %g}}}
	]}`, lat, lng)
}

func TestResolve_Success(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "123 Main St, Miami" {
			t.Errorf("address: got %q", got)
		}
		if got := r.URL.Query().Get("region"); got != "us" {
			t.Errorf("region: got %q", got)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key: got %q", got)
		}
		fmt.Fprint(w, okResponse(25.7, -80.2))
	})

	pt, err := svc.Resolve(context.Background(), "123 Main St, Miami")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pt.Latitude != 25.7 || pt.Longitude != -80.2 {
		t.Errorf("point: got %+v, want {25.7 -80.2}", pt)
	}
}

func TestResolve_FallbackSuffixOnEmptyResults(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		addr := r.URL.Query().Get("address")
		if addr == "Ocean Drive, Florida" {
			fmt.Fprint(w, okResponse(25.78, -80.13))
			return
		}
		fmt.Fprint(w, `{"status": "ZERO_RESULTS", "results": []}`)
	})

	pt, err := svc.Resolve(context.Background(), "Ocean Drive")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pt.Latitude != 25.78 {
		t.Errorf("fallback point: got %+v", pt)
	}
}

func TestResolve_UnresolvableAfterFallback(t *testing.T) {
	var calls int
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"status": "ZERO_RESULTS", "results": []}`)
	})

	_, err := svc.Resolve(context.Background(), "Nowhere Specific")
	if !errors.Is(err, domain.ErrGeocodeFailed) {
		t.Fatalf("expected ErrGeocodeFailed, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected exactly one fallback retry, got %d calls", calls)
	}
}

func TestResolve_ProviderErrorStatus(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "REQUEST_DENIED", "error_message": "bad key", "results": []}`)
	})

	_, err := svc.Resolve(context.Background(), "123 Main St")
	if !errors.Is(err, domain.ErrGeocodeFailed) {
		t.Errorf("expected ErrGeocodeFailed, got %v", err)
	}
}

// fakeCache records lookups.
type fakeCache struct {
	points map[string]domain.GeoPoint
	sets   int
}

func (f *fakeCache) Get(_ context.Context, loc string) (domain.GeoPoint, bool) {
	pt, ok := f.points[loc]
	return pt, ok
}

func (f *fakeCache) Set(_ context.Context, loc string, pt domain.GeoPoint) {
	f.points[loc] = pt
	f.sets++
}

func TestResolve_CacheHitSkipsProvider(t *testing.T) {
	var calls int
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, okResponse(25.7, -80.2))
	})

	cache := &fakeCache{points: map[string]domain.GeoPoint{
		"123 Main St, Miami": {Latitude: 25.7, Longitude: -80.2},
	}}
	svc.WithCache(cache)

	pt, err := svc.Resolve(context.Background(), "123 Main St, Miami")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pt.Latitude != 25.7 {
		t.Errorf("point: got %+v", pt)
	}
	if calls != 0 {
		t.Errorf("provider should not be called on cache hit, got %d calls", calls)
	}
}

func TestResolve_CacheMissPopulatesCache(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, okResponse(26.1, -80.1))
	})

	cache := &fakeCache{points: map[string]domain.GeoPoint{}}
	svc.WithCache(cache)

	if _, err := svc.Resolve(context.Background(), "Las Olas Blvd"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("expected one cache set, got %d", cache.sets)
	}
}
