package propsearch

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped from the server's error codes.
// Use errors.Is() to check.
var (
	ErrTemplateNotFound = errors.New("search template not found")
	ErrIndexNotFound    = errors.New("index not found")
	ErrGeocodeFailed    = errors.New("geocoding failed")
	ErrStoreUnavailable = errors.New("search store unavailable")
	ErrBadRequest       = errors.New("bad request")
)

var codeSentinels = map[string]error{
	"template_not_found": ErrTemplateNotFound,
	"index_not_found":    ErrIndexNotFound,
	"geocode_failed":     ErrGeocodeFailed,
	"store_unavailable":  ErrStoreUnavailable,
	"bad_request":        ErrBadRequest,
}

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("propsearch: %s (status %d): %s", e.Code, e.Status, e.Message)
}

// Unwrap maps the server's error code to a package sentinel.
func (e *APIError) Unwrap() error {
	return codeSentinels[e.Code]
}
