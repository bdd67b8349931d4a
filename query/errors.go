package query

import "errors"

var (
	// ErrStoreRequired is returned when a corpus store is not provided.
	ErrStoreRequired = errors.New("corpus store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrGeneratorRequired is returned when a generator is not provided.
	ErrGeneratorRequired = errors.New("generator required")

	// ErrClassifierRequired is returned when a route classifier is not provided.
	ErrClassifierRequired = errors.New("route classifier required")

	// ErrLookupRequired is returned when a general-knowledge lookup is not provided.
	ErrLookupRequired = errors.New("lookup required")

	// ErrEmptyQuestion is returned for a blank question.
	ErrEmptyQuestion = errors.New("question is empty")
)
