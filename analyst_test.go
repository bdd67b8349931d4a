package newsanalyst

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pressline/newsanalyst/core"
	"github.com/pressline/newsanalyst/corpus"
	"github.com/pressline/newsanalyst/ingest"
	"github.com/pressline/newsanalyst/quota"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStoreConfig(t *testing.T) *corpus.Config {
	t.Helper()
	return corpus.NewConfig(
		corpus.WithBackend(corpus.BackendBadger),
		corpus.WithPath(filepath.Join(t.TempDir(), "corpus")),
	)
}

// stubSource implements ingest.Fetcher for wiring tests.
type stubSource struct{}

func (stubSource) Fetch(ctx context.Context) ([]core.Article, error) {
	return nil, nil
}

func (stubSource) Name() string {
	return "stub"
}

func TestNew(t *testing.T) {
	t.Run("create new analyst", func(t *testing.T) {
		a, err := New(context.Background(), WithStoreConfig(testStoreConfig(t)))
		require.NoError(t, err)
		require.NotNil(t, a)
		defer a.Close()

		assert.NotNil(t, a.Store())
		assert.NotNil(t, a.Controller())
		assert.NotNil(t, a.engine)
		assert.NotNil(t, a.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		cfg := corpus.NewConfig(
			corpus.WithBackend(corpus.BackendBadger),
			corpus.WithPath(tmpFile),
		)
		a, err := New(context.Background(), WithStoreConfig(cfg))
		assert.Error(t, err)
		assert.Nil(t, a)
	})
}

func TestAnalyst_Close(t *testing.T) {
	a, err := New(context.Background(), WithStoreConfig(testStoreConfig(t)))
	require.NoError(t, err)

	assert.NoError(t, a.Close())
}

func TestAnalyst_NewIngestionPipeline(t *testing.T) {
	a, err := New(context.Background(), WithStoreConfig(testStoreConfig(t)))
	require.NoError(t, err)
	defer a.Close()

	pipeline, err := a.NewIngestionPipeline([]ingest.Fetcher{stubSource{}})
	require.NoError(t, err)
	require.NotNil(t, pipeline)
	pipeline.Release()

	_, err = a.NewIngestionPipeline(nil)
	assert.ErrorIs(t, err, ingest.ErrNoSources)
}

func TestAnalyst_BrowseEmptyStore(t *testing.T) {
	a, err := New(context.Background(), WithStoreConfig(testStoreConfig(t)))
	require.NoError(t, err)
	defer a.Close()

	records, err := a.Browse(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAnalyst_AskRejectedByBudgetBeforeAnyWork(t *testing.T) {
	a, err := New(context.Background(),
		WithStoreConfig(testStoreConfig(t)),
		WithDailyLimit(1))
	require.NoError(t, err)
	defer a.Close()

	// The estimate alone exceeds the limit, so the request never reaches
	// the embedding or generation services.
	_, err = a.Ask(context.Background(), "What happened in AI news this week?")
	assert.ErrorIs(t, err, quota.ErrBudgetExceeded)

	snapshot, err := a.Usage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), snapshot.Used)
}

func TestAnalyst_Usage(t *testing.T) {
	a, err := New(context.Background(),
		WithStoreConfig(testStoreConfig(t)),
		WithDailyLimit(5000))
	require.NoError(t, err)
	defer a.Close()

	snapshot, err := a.Usage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5000), snapshot.Limit)
	assert.Equal(t, int64(0), snapshot.Used)
	assert.Equal(t, int64(5000), snapshot.Remaining)
}
