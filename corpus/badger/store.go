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


package badger

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/pressline/newsanalyst/core"
	"github.com/pressline/newsanalyst/corpus"
)

// Store implements corpus.Store on an embedded BadgerDB index.
// Similarity search is a brute-force cosine scan over all records, which
// is adequate for a single-host news corpus of a few thousand chunks.
type Store struct {
	backend *Backend
}

var _ corpus.Store = (*Store)(nil)

// NewStore creates a corpus store on the given backend.
//
// Returns corpus.Store interface to enforce abstraction.
func NewStore(backend *Backend) (corpus.Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: nil backend", corpus.ErrStoreUnavailable)
	}
	return &Store{backend: backend}, nil
}

// Open opens the BadgerDB database at path and returns a store on it.
// Closing the store closes the database.
func Open(path string) (corpus.Store, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}
	return NewStore(backend)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.backend.Close()
}

// ExistingFingerprints returns the set of stored article links.
// An empty (never-written) database yields an empty set.
func (s *Store) ExistingFingerprints(ctx context.Context) (map[string]struct{}, error) {
	if s.backend.IsClosed() {
		return nil, corpus.ErrStoreClosed
	}

	links := make(map[string]struct{})
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(linkPrefix + ":")
		opts.PrefetchValues = false // keys carry the link; values are empty
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			links[linkFromKey(iter.Item().Key())] = struct{}{}
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	return links, nil
}

// Add appends records in a single transaction. Either every record in the
// batch is persisted or none is. A batch larger than Badger's transaction
// cap fails whole with ErrTxnTooBig wrapped in ErrStoreUnavailable; callers
// ingesting very large feeds should split their batches.
func (s *Store) Add(ctx context.Context, records []core.Record) error {
	if s.backend.IsClosed() {
		return corpus.ErrStoreClosed
	}
	if len(records) == 0 {
		return nil
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for i := range records {
			record := &records[i]
			if err := core.ValidateRecord(record); err != nil {
				return err
			}
			if err := tx.Set(makeRecordKey(record.Id), corpus.MarshalRecord(record)); err != nil {
				return err
			}
			if err := tx.Set(makeLinkKey(record.Link()), nil); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	return nil
}

// Search scans all records and returns the k nearest by cosine similarity.
// Ties resolve in key order, so results are deterministic for a fixed
// store state.
func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]core.SearchHit, error) {
	if s.backend.IsClosed() {
		return nil, corpus.ErrStoreClosed
	}

	var hits []core.SearchHit
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.Record
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = corpus.UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return fmt.Errorf("%w: %w", corpus.ErrSerializationFailed, err)
			}
			if record == nil || len(record.Vector) == 0 {
				continue
			}

			hits = append(hits, core.SearchHit{
				Record: record,
				Score:  cosineSimilarity(vector, record.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	// Stable sort keeps key order for equal scores.
	slices.SortStableFunc(hits, func(a, b core.SearchHit) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(hits) > k {
		hits = hits[:k]
	}

	return hits, nil
}

// AllRecords returns every stored record in key order.
func (s *Store) AllRecords(ctx context.Context) ([]core.Record, error) {
	if s.backend.IsClosed() {
		return nil, corpus.ErrStoreClosed
	}

	var records []core.Record
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				record, err := corpus.UnmarshalRecord(val)
				if err != nil {
					return fmt.Errorf("%w: %w", corpus.ErrSerializationFailed, err)
				}
				records = append(records, *record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	return records, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 for mismatched or zero-magnitude vectors.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float32
	for i := 0; i < minLen; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
