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


package milvus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"github.com/pressline/newsanalyst/core"
	"github.com/pressline/newsanalyst/corpus"
)

// Collection schema fields.
const (
	fieldRecordID  = "record_id"
	fieldLink      = "link"
	fieldContent   = "content"
	fieldMetadata  = "metadata"
	fieldEmbedding = "embedding"

	maxLinkLength    = 1024
	maxContentLength = 4096
)

// Record IDs are hashes cast to int64, so they cover the full signed range
// including negatives. Scans must not filter on sign.
var allRowsExpr = fmt.Sprintf("%s >= %d", fieldRecordID, int64(math.MinInt64))

// Store implements corpus.Store on a Milvus collection. It is the managed
// backend for installations that outgrow a single host.
type Store struct {
	client     client.Client
	collection string
	dimension  int
	logger     *slog.Logger
}

var _ corpus.Store = (*Store)(nil)

// NewStore connects to Milvus, ensures the collection and its index exist,
// and returns a corpus store on it.
//
// Returns corpus.Store interface to enforce abstraction.
func NewStore(ctx context.Context, cfg *corpus.Config) (corpus.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c, err := client.NewClient(ctx, client.Config{Address: cfg.Address})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	store := &Store{
		client:     c,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		logger:     slog.Default().With("component", "milvus-store"),
	}

	if err := store.ensureCollection(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	return store, nil
}

func (s *Store) ensureCollection(ctx context.Context) error {
	has, err := s.client.HasCollection(ctx, s.collection)
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	schema := &entity.Schema{
		CollectionName: s.collection,
		Fields: []*entity.Field{
			{
				Name:       fieldRecordID,
				DataType:   entity.FieldTypeInt64,
				PrimaryKey: true,
			},
			{
				Name:       fieldLink,
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": fmt.Sprint(maxLinkLength)},
			},
			{
				Name:       fieldContent,
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": fmt.Sprint(maxContentLength)},
			},
			{
				Name:     fieldMetadata,
				DataType: entity.FieldTypeJSON,
			},
			{
				Name:       fieldEmbedding,
				DataType:   entity.FieldTypeFloatVector,
				TypeParams: map[string]string{"dim": fmt.Sprint(s.dimension)},
			},
		},
	}

	if err := s.client.CreateCollection(ctx, schema, 1); err != nil {
		return err
	}

	index, err := entity.NewIndexIvfFlat(entity.COSINE, 128)
	if err != nil {
		return err
	}
	return s.client.CreateIndex(ctx, s.collection, fieldEmbedding, index, false)
}

// Close closes the Milvus connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// ExistingFingerprints returns the set of distinct stored article links.
func (s *Store) ExistingFingerprints(ctx context.Context) (map[string]struct{}, error) {
	if err := s.client.LoadCollection(ctx, s.collection, false); err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	result, err := s.client.Query(ctx, s.collection, nil, allRowsExpr, []string{fieldLink})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	links := make(map[string]struct{})
	for _, column := range result {
		linkCol, ok := column.(*entity.ColumnVarChar)
		if !ok || linkCol.Name() != fieldLink {
			continue
		}
		for _, link := range linkCol.Data() {
			links[link] = struct{}{}
		}
	}

	return links, nil
}

// Add writes records. Upsert keeps Add idempotent by record ID, matching
// the embedded and relational backends; the batch is flushed before
// returning so a reported success is durable.
func (s *Store) Add(ctx context.Context, records []core.Record) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]int64, len(records))
	links := make([]string, len(records))
	contents := make([]string, len(records))
	metadatas := make([][]byte, len(records))
	vectors := make([][]float32, len(records))

	for i := range records {
		record := &records[i]
		if err := core.ValidateRecord(record); err != nil {
			return err
		}
		meta, err := json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("%w: %w", corpus.ErrSerializationFailed, err)
		}
		ids[i] = int64(record.Id)
		links[i] = record.Link()
		contents[i] = record.Text
		metadatas[i] = meta
		vectors[i] = record.Vector
	}

	_, err := s.client.Upsert(ctx, s.collection, "",
		entity.NewColumnInt64(fieldRecordID, ids),
		entity.NewColumnVarChar(fieldLink, links),
		entity.NewColumnVarChar(fieldContent, contents),
		entity.NewColumnJSONBytes(fieldMetadata, metadatas),
		entity.NewColumnFloatVector(fieldEmbedding, s.dimension, vectors),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	if err := s.client.Flush(ctx, s.collection, false); err != nil {
		return fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	return nil
}

// Search performs a vector similarity search over the collection.
func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]core.SearchHit, error) {
	if err := s.client.LoadCollection(ctx, s.collection, false); err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	sp, err := entity.NewIndexIvfFlatSearchParam(10)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	results, err := s.client.Search(
		ctx, s.collection, nil, "",
		[]string{fieldRecordID, fieldContent, fieldMetadata},
		[]entity.Vector{entity.FloatVector(vector)},
		fieldEmbedding, entity.COSINE, k, sp,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	var hits []core.SearchHit
	for _, res := range results {
		records, err := decodeColumns(res.Fields, res.ResultCount)
		if err != nil {
			s.logger.Warn("skipping undecodable search result", "err", err)
			continue
		}
		for i, record := range records {
			hit := core.SearchHit{Record: record}
			if i < len(res.Scores) {
				hit.Score = res.Scores[i]
			}
			hits = append(hits, hit)
		}
	}

	return hits, nil
}

// AllRecords returns every stored record ordered by record ID.
func (s *Store) AllRecords(ctx context.Context) ([]core.Record, error) {
	if err := s.client.LoadCollection(ctx, s.collection, false); err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	result, err := s.client.Query(ctx, s.collection, nil, allRowsExpr,
		[]string{fieldRecordID, fieldContent, fieldMetadata})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}

	count := 0
	for _, column := range result {
		if column.Name() == fieldRecordID {
			count = column.Len()
		}
	}

	decoded, err := decodeColumns(result, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrSerializationFailed, err)
	}

	records := make([]core.Record, 0, len(decoded))
	for _, record := range decoded {
		records = append(records, *record)
	}

	// Milvus query order is not defined; sort for a deterministic view.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Id < records[j].Id
	})

	return records, nil
}

// decodeColumns rebuilds records from a column-oriented Milvus result.
func decodeColumns(columns []entity.Column, count int) ([]*core.Record, error) {
	var (
		idCol      *entity.ColumnInt64
		contentCol *entity.ColumnVarChar
		metaCol    *entity.ColumnJSONBytes
	)

	for _, column := range columns {
		switch column.Name() {
		case fieldRecordID:
			idCol, _ = column.(*entity.ColumnInt64)
		case fieldContent:
			contentCol, _ = column.(*entity.ColumnVarChar)
		case fieldMetadata:
			metaCol, _ = column.(*entity.ColumnJSONBytes)
		}
	}

	if idCol == nil || contentCol == nil || metaCol == nil {
		return nil, fmt.Errorf("result missing expected columns")
	}

	records := make([]*core.Record, 0, count)
	for i := 0; i < count; i++ {
		var metadata map[string]string
		if err := json.Unmarshal(metaCol.Data()[i], &metadata); err != nil {
			return nil, err
		}
		records = append(records, &core.Record{
			Id:       core.ID(idCol.Data()[i]),
			Text:     contentCol.Data()[i],
			Metadata: metadata,
		})
	}

	return records, nil
}
