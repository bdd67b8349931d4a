package ingest

import "errors"

var (
	// ErrStoreRequired is returned when a corpus store is not provided.
	ErrStoreRequired = errors.New("corpus store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrNoSources is returned when a pipeline is built without any sources.
	ErrNoSources = errors.New("at least one source required")

	// ErrInvalidChunking is returned for a chunk overlap that is not
	// strictly smaller than the chunk size, or a non-positive size.
	ErrInvalidChunking = errors.New("invalid chunking parameters")
)
