package corpus

import "fmt"

// BackendKind names a corpus store implementation.
type BackendKind string

const (
	// BackendBadger is the embedded local index (BadgerDB).
	BackendBadger BackendKind = "badger"

	// BackendPgvector is the relational store with the pgvector extension.
	BackendPgvector BackendKind = "pgvector"

	// BackendMilvus is the managed/cloud vector index.
	BackendMilvus BackendKind = "milvus"
)

// Config selects and parameterizes a corpus store backend. It is resolved
// once per process (the root package's OpenStore reads it exactly once) and
// passed explicitly rather than held in a process-wide singleton, so tests
// can run independently configured stores side by side.
type Config struct {
	// Backend selects the implementation.
	Backend BackendKind

	// Path is the BadgerDB database directory (badger backend).
	Path string

	// DSN is the PostgreSQL connection string (pgvector backend).
	DSN string

	// Address is the Milvus server address (milvus backend).
	Address string

	// Collection is the table (pgvector) or collection (milvus) name.
	Collection string

	// Dimension is the embedding vector dimension. Required by backends
	// that declare it in their schema (pgvector, milvus).
	Dimension int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBackend selects the backend implementation.
func WithBackend(kind BackendKind) ConfigOption {
	return func(c *Config) {
		c.Backend = kind
	}
}

// WithPath sets the BadgerDB database directory.
func WithPath(path string) ConfigOption {
	return func(c *Config) {
		c.Path = path
	}
}

// WithDSN sets the PostgreSQL connection string.
func WithDSN(dsn string) ConfigOption {
	return func(c *Config) {
		c.DSN = dsn
	}
}

// WithAddress sets the Milvus server address.
func WithAddress(address string) ConfigOption {
	return func(c *Config) {
		c.Address = address
	}
}

// WithCollection sets the table or collection name.
func WithCollection(name string) ConfigOption {
	return func(c *Config) {
		c.Collection = name
	}
}

// WithDimension sets the embedding vector dimension.
func WithDimension(dim int) ConfigOption {
	return func(c *Config) {
		c.Dimension = dim
	}
}

// DefaultConfig returns a Config for a local embedded store.
func DefaultConfig() *Config {
	return &Config{
		Backend:    BackendBadger,
		Path:       "./data/corpus",
		Collection: "news_articles",
		Dimension:  1536,
	}
}

// NewConfig creates a Config with default values and applies the provided
// options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration names a supported backend and
// carries the parameters that backend needs.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendBadger:
		if c.Path == "" {
			return fmt.Errorf("corpus config: Path is required for the badger backend")
		}
	case BackendPgvector:
		if c.DSN == "" {
			return fmt.Errorf("corpus config: DSN is required for the pgvector backend")
		}
		if c.Dimension <= 0 {
			return fmt.Errorf("corpus config: Dimension is required for the pgvector backend")
		}
	case BackendMilvus:
		if c.Address == "" {
			return fmt.Errorf("corpus config: Address is required for the milvus backend")
		}
		if c.Dimension <= 0 {
			return fmt.Errorf("corpus config: Dimension is required for the milvus backend")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	if c.Collection == "" {
		return fmt.Errorf("corpus config: Collection is required")
	}

	return nil
}
