package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] and the
// binaries' own startup checks.
var (
	// ErrInvalidClientConfigs indicates invalid client daemon settings
	// (for example, a negative poll interval or empty server address).
	ErrInvalidClientConfigs = errors.New("invalid client configuration")
	// ErrInvalidServerConfigs indicates invalid server settings
	// (for example, missing listen address or database DSN).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, missing token sign key).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
)
