package domain

import "errors"

var (
	// ErrIndexNotFound signals a missing index.
	ErrIndexNotFound = errors.New("index not found")
	// ErrTemplateNotFound signals a missing search template.
	ErrTemplateNotFound = errors.New("search template not found")
	// ErrStoreUnavailable signals that the search store cannot be reached.
	ErrStoreUnavailable = errors.New("search store unavailable")
	// ErrGeocodeFailed signals that an address could not be resolved to coordinates.
	ErrGeocodeFailed = errors.New("could not geocode location")
	// ErrInvalidDefinition signals an unreadable or malformed mapping/template file.
	ErrInvalidDefinition = errors.New("invalid definition file")
	// ErrBadRequest signals an invalid caller request.
	ErrBadRequest = errors.New("bad request")
)
