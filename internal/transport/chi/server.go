// Package chi exposes the query-serving HTTP API: parameter discovery,
// geocoding and templated search. Every operation returns a structured
// success-or-error body carrying a human-readable message.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/propstack/propsearch/internal/domain"
	searchuc "github.com/propstack/propsearch/internal/usecase/search"
)

// ParamsResolver discovers the parameters the search template declares.
type ParamsResolver interface {
	TemplateParams(ctx context.Context) ([]domain.TemplateParam, error)
}

// Searcher executes a templated search.
type Searcher interface {
	Search(ctx context.Context, p searchuc.Params) (domain.SearchOutcome, error)
}

// Geocoder resolves an address to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, location string) (domain.GeoPoint, error)
}

// Pinger checks store reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server wires the usecases into HTTP handlers.
type Server struct {
	params        ParamsResolver
	search        Searcher
	geocoder      Geocoder
	pinger        Pinger
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(params ParamsResolver, search Searcher, geocoder Geocoder, pinger Pinger, logger *zap.Logger) *Server {
	s := &Server{
		params:   params,
		search:   search,
		geocoder: geocoder,
		pinger:   pinger,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrTemplateNotFound, http.StatusNotFound, "template_not_found"),
		sentinelHandler(domain.ErrIndexNotFound, http.StatusNotFound, "index_not_found"),
		sentinelHandler(domain.ErrGeocodeFailed, http.StatusUnprocessableEntity, "geocode_failed"),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusBadGateway, "store_unavailable"),
		sentinelHandler(domain.ErrBadRequest, http.StatusBadRequest, "bad_request"),
	}
	return s
}

// Routes mounts the API endpoints on a fresh router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/template/params", s.TemplateParams)
		r.Get("/geocode", s.Geocode)
		r.Post("/search", s.Search)
	})
	return r
}

// TemplateParams handles GET /api/v1/template/params.
func (s *Server) TemplateParams(w http.ResponseWriter, r *http.Request) {
	params, err := s.params.TemplateParams(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf(
			"Required parameters for the properties search template: %s",
			strings.Join(names, ", "),
		),
		"parameters": params,
	})
}

// Geocode handles GET /api/v1/geocode?location=...
func (s *Server) Geocode(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "Query parameter 'location' is required")
		return
	}

	pt, err := s.geocoder.Resolve(r.Context(), location)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   fmt.Sprintf("Geocoded %q to latitude %g, longitude %g", location, pt.Latitude, pt.Longitude),
		"latitude":  pt.Latitude,
		"longitude": pt.Longitude,
	})
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchuc.Params
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	outcome, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	message := fmt.Sprintf(
		"Found %d properties matching your criteria. Here are the top %d results.",
		outcome.Total, len(outcome.Records),
	)
	if outcome.Total == 0 {
		message = fmt.Sprintf("No results found for query: %s", req.Query)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": message,
		"total":   outcome.Total,
		"results": outcome.Records,
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.pinger.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "Search store is unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("unhandled error",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal_error", "Internal error")
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}
