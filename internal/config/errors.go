package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoServer is returned when no server URL is configured and no saved
	// annotation is replayed.
	ErrNoServer = errors.New("no annotation server configured: set --server or use --from-json")

	// ErrInvalidServerURL is returned when the server URL is not an absolute http(s) URL.
	ErrInvalidServerURL = errors.New("invalid server URL: must be an absolute http or https URL")

	// ErrNoAnnotators is returned when the annotator list is empty.
	ErrNoAnnotators = errors.New("no annotators configured")

	// ErrNoOutputDir is returned when the output directory is empty.
	ErrNoOutputDir = errors.New("no output directory configured")

	// ErrInvalidFormat is returned for an unknown report format.
	ErrInvalidFormat = errors.New("invalid report format: must be text, json or markdown")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidWaitReady is returned when the readiness wait is negative.
	ErrInvalidWaitReady = errors.New("invalid wait-ready duration: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrIncompleteCredentials is returned when only one of username and password is set.
	ErrIncompleteCredentials = errors.New("incomplete server credentials: set both username and password")
)
