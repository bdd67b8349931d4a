package corpus

import (
	"context"

	"github.com/pressline/newsanalyst/core"
)

// Store provides a uniform interface over interchangeable vector-index
// backends. The rest of the system is backend-agnostic: callers never know
// whether an embedded local index, a managed cloud index, or a relational
// store answers a given call. Implementations must be thread-safe and
// support concurrent readers.
type Store interface {
	// ExistingFingerprints returns every distinct article link currently
	// stored. This set is the deduplication index for ingestion. A store
	// that has never been initialized returns an empty set, not an error.
	ExistingFingerprints(ctx context.Context) (map[string]struct{}, error)

	// Add appends records to the store. The batch is atomic from the
	// caller's perspective: a partial write is reported as a failure of
	// the whole batch, which the caller retries wholesale.
	Add(ctx context.Context, records []core.Record) error

	// Search returns up to k records ranked by embedding similarity to
	// the query vector, highest first. For a fixed store state the
	// ordering is deterministic; ties resolve in record-id order.
	Search(ctx context.Context, vector []float32, k int) ([]core.SearchHit, error)

	// AllRecords returns every stored record. Used for diagnostics and
	// the public browse view, not on the query path.
	AllRecords(ctx context.Context) ([]core.Record, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
