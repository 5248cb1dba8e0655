package service

import "errors"

var (
	// ErrMalformedMarker rejects a GetUpdates request whose progress
	// marker token cannot be decoded.
	ErrMalformedMarker = errors.New("malformed progress marker token")

	// ErrNoModelType rejects a request that does not name a model type.
	ErrNoModelType = errors.New("no model type provided")
)
