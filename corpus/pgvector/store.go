// Copyright 2026 Pressline Media
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pgvector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
	"github.com/pressline/newsanalyst/core"
	"github.com/pressline/newsanalyst/corpus"
)

// Store implements corpus.Store on PostgreSQL with the pgvector extension.
// Similarity search uses the cosine distance operator, so it scales past
// what the embedded backend's linear scan handles comfortably.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

var _ corpus.Store = (*Store)(nil)

// PoolConfig holds tunable parameters for the PostgreSQL connection pool.
type PoolConfig struct {
	MaxConns int
	MinConns int
}

// NewStore connects to PostgreSQL, ensures the schema exists, and returns
// a corpus store on the configured table.
//
// Returns corpus.Store interface to enforce abstraction.
func NewStore(ctx context.Context, cfg *corpus.Config, opts ...PoolConfig) (corpus.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := newPool(ctx, cfg.DSN, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	store := &Store{pool: pool, table: cfg.Collection}
	if err := store.ensureSchema(ctx, cfg.Dimension); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	return store, nil
}

// newPool creates a PostgreSQL connection pool with pgvector types registered.
func newPool(ctx context.Context, dsn string, opts ...PoolConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Apply pool config if provided, otherwise use defaults
	if len(opts) > 0 && opts[0].MaxConns > 0 {
		config.MaxConns = int32(opts[0].MaxConns)
	} else {
		config.MaxConns = 10
	}
	if len(opts) > 0 && opts[0].MinConns > 0 {
		config.MinConns = int32(opts[0].MinConns)
	} else {
		config.MinConns = 2
	}

	config.MaxConnLifetime = 1 * time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	// Register pgvector types
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return pool, nil
}

func (s *Store) ensureSchema(ctx context.Context, dimension int) error {
	if _, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return err
	}

	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          UUID PRIMARY KEY,
			record_id   BIGINT NOT NULL UNIQUE,
			link        TEXT NOT NULL,
			content     TEXT NOT NULL,
			metadata    JSONB NOT NULL,
			embedding   VECTOR(%d) NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, pgx.Identifier{s.table}.Sanitize(), dimension)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return err
	}

	idx := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (link)`,
		pgx.Identifier{s.table + "_link_idx"}.Sanitize(),
		pgx.Identifier{s.table}.Sanitize())
	_, err := s.pool.Exec(ctx, idx)
	return err
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// ExistingFingerprints returns the set of distinct stored article links.
func (s *Store) ExistingFingerprints(ctx context.Context) (map[string]struct{}, error) {
	query := fmt.Sprintf(`SELECT DISTINCT link FROM %s`, pgx.Identifier{s.table}.Sanitize())
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	links := make(map[string]struct{})
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
		}
		links[link] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	return links, nil
}

// Add appends records inside a single database transaction.
func (s *Store) Add(ctx context.Context, records []core.Record) error {
	if len(records) == 0 {
		return nil
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (id, record_id, link, content, metadata, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (record_id) DO UPDATE
		SET content = EXCLUDED.content,
		    metadata = EXCLUDED.metadata,
		    embedding = EXCLUDED.embedding`,
		pgx.Identifier{s.table}.Sanitize())

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for i := range records {
			record := &records[i]
			if err := core.ValidateRecord(record); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, insert,
				uuid.New(),
				int64(record.Id),
				record.Link(),
				record.Text,
				record.Metadata,
				pgvector.NewVector(record.Vector),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	return nil
}

// Search returns the k records nearest to the query vector by cosine
// distance. record_id is the tiebreaker for equal distances.
func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]core.SearchHit, error) {
	query := fmt.Sprintf(`
		SELECT record_id, content, metadata, embedding,
		       1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1, record_id
		LIMIT $2`,
		pgx.Identifier{s.table}.Sanitize())

	rows, err := s.pool.Query(ctx, query, pgvector.NewVector(vector), k)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var hits []core.SearchHit
	for rows.Next() {
		var (
			recordID  int64
			content   string
			metadata  map[string]string
			embedding pgvector.Vector
			score     float64
		)
		if err := rows.Scan(&recordID, &content, &metadata, &embedding, &score); err != nil {
			return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
		}
		hits = append(hits, core.SearchHit{
			Record: &core.Record{
				Id:       core.ID(recordID),
				Text:     content,
				Metadata: metadata,
				Vector:   embedding.Slice(),
			},
			Score: float32(score),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	return hits, nil
}

// AllRecords returns every stored record in insertion order.
func (s *Store) AllRecords(ctx context.Context) ([]core.Record, error) {
	query := fmt.Sprintf(`
		SELECT record_id, content, metadata
		FROM %s
		ORDER BY created_at, record_id`,
		pgx.Identifier{s.table}.Sanitize())

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var (
			recordID int64
			content  string
			metadata map[string]string
		)
		if err := rows.Scan(&recordID, &content, &metadata); err != nil {
			return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
		}
		records = append(records, core.Record{
			Id:       core.ID(recordID),
			Text:     content,
			Metadata: metadata,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	return records, nil
}
