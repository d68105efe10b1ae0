package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/propstack/propsearch/internal/domain"
	searchuc "github.com/propstack/propsearch/internal/usecase/search"
)

// --- Mocks ---

type mockParams struct {
	params []domain.TemplateParam
	err    error
}

func (m *mockParams) TemplateParams(_ context.Context) ([]domain.TemplateParam, error) {
	return m.params, m.err
}

type mockSearcher struct {
	outcome    domain.SearchOutcome
	err        error
	lastParams searchuc.Params
}

func (m *mockSearcher) Search(_ context.Context, p searchuc.Params) (domain.SearchOutcome, error) {
	m.lastParams = p
	return m.outcome, m.err
}

type mockGeocoder struct {
	pt  domain.GeoPoint
	err error
}

func (m *mockGeocoder) Resolve(_ context.Context, _ string) (domain.GeoPoint, error) {
	return m.pt, m.err
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestServer(params *mockParams, searcher *mockSearcher, geo *mockGeocoder) *Server {
	if params == nil {
		params = &mockParams{}
	}
	if searcher == nil {
		searcher = &mockSearcher{}
	}
	if geo == nil {
		geo = &mockGeocoder{}
	}
	return NewServer(params, searcher, geo, &mockPinger{}, zap.NewNop())
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, req)

	var decoded map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rr.Body.String())
	}
	return rr, decoded
}

func TestTemplateParams_OK(t *testing.T) {
	s := newTestServer(&mockParams{params: []domain.TemplateParam{
		{Name: "bedrooms", Description: "Number of bedrooms"},
		{Name: "distance", Description: "Search radius"},
	}}, nil, nil)

	rr, body := do(t, s, http.MethodGet, "/api/v1/template/params", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	msg, _ := body["message"].(string)
	if !strings.Contains(msg, "bedrooms, distance") {
		t.Errorf("message: got %q", msg)
	}
	if _, ok := body["parameters"]; !ok {
		t.Error("missing parameters in response")
	}
}

func TestTemplateParams_TemplateMissing(t *testing.T) {
	s := newTestServer(&mockParams{err: domain.ErrTemplateNotFound}, nil, nil)

	rr, body := do(t, s, http.MethodGet, "/api/v1/template/params", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
	if body["code"] != "template_not_found" {
		t.Errorf("code: got %v", body["code"])
	}
	if body["message"] == "" {
		t.Error("error responses must carry a message")
	}
}

func TestGeocode_OK(t *testing.T) {
	s := newTestServer(nil, nil, &mockGeocoder{pt: domain.GeoPoint{Latitude: 25.7, Longitude: -80.2}})

	rr, body := do(t, s, http.MethodGet, "/api/v1/geocode?location=123+Main+St,+Miami", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if body["latitude"] != 25.7 || body["longitude"] != -80.2 {
		t.Errorf("body: %v", body)
	}
}

func TestGeocode_MissingLocation(t *testing.T) {
	s := newTestServer(nil, nil, nil)

	rr, _ := do(t, s, http.MethodGet, "/api/v1/geocode", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestGeocode_Unresolvable(t *testing.T) {
	s := newTestServer(nil, nil, &mockGeocoder{err: domain.ErrGeocodeFailed})

	rr, body := do(t, s, http.MethodGet, "/api/v1/geocode?location=Nowhere", "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want 422", rr.Code)
	}
	if body["code"] != "geocode_failed" {
		t.Errorf("code: got %v", body["code"])
	}
}

func TestSearch_OK(t *testing.T) {
	searcher := &mockSearcher{outcome: domain.SearchOutcome{
		Total: 17,
		Records: []domain.SearchRecord{
			{Title: "Sunny bungalow", HomePrice: 350000.0, Tax: "N/A"},
		},
	}}
	s := newTestServer(nil, searcher, nil)

	rr, body := do(t, s, http.MethodPost, "/api/v1/search",
		`{"query": "bungalow", "home_price_max": 400000}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if body["total"] != 17.0 {
		t.Errorf("total: got %v", body["total"])
	}
	msg, _ := body["message"].(string)
	if !strings.Contains(msg, "Found 17 properties") {
		t.Errorf("message: got %q", msg)
	}
	if searcher.lastParams.HomePriceMax == nil || *searcher.lastParams.HomePriceMax != 400000 {
		t.Errorf("decoded params: %+v", searcher.lastParams)
	}
}

func TestSearch_NoResultsIsStructuredOutcome(t *testing.T) {
	s := newTestServer(nil, &mockSearcher{outcome: domain.SearchOutcome{Total: 0}}, nil)

	rr, body := do(t, s, http.MethodPost, "/api/v1/search", `{"query": "castle"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("no-results must not be an HTTP error, got %d", rr.Code)
	}
	msg, _ := body["message"].(string)
	if !strings.Contains(msg, "No results found for query: castle") {
		t.Errorf("message: got %q", msg)
	}
}

func TestSearch_StoreDown(t *testing.T) {
	s := newTestServer(nil, &mockSearcher{err: domain.ErrStoreUnavailable}, nil)

	rr, body := do(t, s, http.MethodPost, "/api/v1/search", `{"query": "pool"}`)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want 502", rr.Code)
	}
	if body["code"] != "store_unavailable" {
		t.Errorf("code: got %v", body["code"])
	}
}

func TestSearch_BadBody(t *testing.T) {
	s := newTestServer(nil, nil, nil)

	rr, _ := do(t, s, http.MethodPost, "/api/v1/search", `{"query": `)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(nil, nil, nil)

	rr, _ := do(t, s, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d", rr.Code)
	}
}
