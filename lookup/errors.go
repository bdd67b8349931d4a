package lookup

import "errors"

var (
	// ErrLookupFailed indicates the reference source could not be reached
	// or returned an unusable response.
	ErrLookupFailed = errors.New("reference lookup failed")

	// ErrNoResults indicates the reference source had nothing for the query.
	ErrNoResults = errors.New("no reference results")
)
