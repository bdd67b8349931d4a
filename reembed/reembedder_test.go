package reembed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pressline/newsanalyst/ai/mock"
	"github.com/pressline/newsanalyst/core"
	"github.com/pressline/newsanalyst/corpus"
	"github.com/pressline/newsanalyst/corpus/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() *Config {
	return &Config{
		BatchSize:      2,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}
}

func seededStore(t *testing.T, count int) corpus.Store {
	t.Helper()
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	records := make([]core.Record, count)
	for i := range records {
		chunk := core.Chunk{
			Text:       "article text " + string(rune('a'+i)),
			Title:      "Title",
			Link:       "https://example.com/" + string(rune('a'+i)),
			PubDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Source:     "mit",
			IngestedAt: time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC),
		}
		records[i] = core.NewRecord(chunk, 0, []float32{1, 0, 0})
	}
	require.NoError(t, store.Add(context.Background(), records))
	return store
}

func TestNewReembedderValidation(t *testing.T) {
	store := seededStore(t, 1)
	embedder := &mock.MockEmbedder{}

	_, err := NewReembedder(nil, embedder, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewReembedder(store, nil, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestRunRewritesAllVectors(t *testing.T) {
	store := seededStore(t, 5)
	embedder := &mock.MockEmbedder{
		EmbedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i := range texts {
				vectors[i] = []float32{0, 3, 4}
			}
			return vectors, nil
		},
	}

	var out bytes.Buffer
	r, err := NewReembedder(store, embedder, fastConfig(), &out)
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background()))

	records, err := store.AllRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 5, "record count is unchanged by reembedding")
	for _, record := range records {
		require.Len(t, record.Vector, 3)
		assert.InDelta(t, 0.6, record.Vector[1], 1e-6, "vectors are normalized")
		assert.InDelta(t, 0.8, record.Vector[2], 1e-6)
	}

	assert.Contains(t, out.String(), "Reembedding complete")
}

func TestRunEmptyStore(t *testing.T) {
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	var out bytes.Buffer
	r, err := NewReembedder(store, &mock.MockEmbedder{}, fastConfig(), &out)
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "No records found")
}

func TestRunStopsOnPersistentEmbedFailure(t *testing.T) {
	store := seededStore(t, 3)
	boom := errors.New("embedding service down")
	embedder := &mock.MockEmbedder{
		EmbedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, boom
		},
	}

	r, err := NewReembedder(store, embedder, fastConfig(), &bytes.Buffer{})
	require.NoError(t, err)

	err = r.Run(context.Background())
	assert.ErrorIs(t, err, boom)

	// Untouched records keep their original vectors.
	records, err := store.AllRecords(context.Background())
	require.NoError(t, err)
	for _, record := range records {
		assert.Equal(t, []float32{1, 0, 0}, record.Vector)
	}
}
