package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when retry is configured with
	// zero or negative attempts.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")

	// ErrStoreRequired is returned when a corpus store is not provided.
	ErrStoreRequired = errors.New("corpus store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
