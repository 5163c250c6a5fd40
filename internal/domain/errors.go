package domain

import "errors"

// Error taxonomy for the reporting pipeline. Sentinels are wrapped with
// fmt.Errorf("%w: ...") and matched with errors.Is at the API boundary.
var (
	// ErrValidation marks a bad or out-of-range parameter value.
	ErrValidation = errors.New("validation error")

	// ErrBinding marks a template/parameter mismatch, e.g. a missing
	// required value. The engine never substitutes a default silently.
	ErrBinding = errors.New("binding error")

	// ErrQueryExecution marks a data store failure. Never cached, never
	// retried; surfaced verbatim to the caller.
	ErrQueryExecution = errors.New("query execution error")

	// ErrUnknownReport marks a report identifier with no definition.
	ErrUnknownReport = errors.New("unknown report")

	// ErrCache marks a cache failure. Non-fatal: callers treat it as a
	// forced miss and it is never surfaced to the user.
	ErrCache = errors.New("cache error")
)
