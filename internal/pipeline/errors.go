package pipeline

import "errors"

// #region errors

// Typed rejection outcomes surfaced to the request router. All are expected
// results of normal operation, never process-fatal.
var (
	// ErrLowScore rejects a request whose admission score fell below the
	// acceptance threshold.
	ErrLowScore = errors.New("rejected: admission score below threshold")

	// ErrDisallowedContent rejects a request carrying a disallowed marker.
	ErrDisallowedContent = errors.New("rejected: disallowed content marker")
)

// #endregion errors
