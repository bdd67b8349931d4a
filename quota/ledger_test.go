package quota

import (
	"context"
	"sync"
	"testing"

	"github.com/pressline/newsanalyst/corpus/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLedger(t *testing.T) *BadgerLedger {
	t.Helper()
	backend, err := badger.OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	ledger, err := NewBadgerLedger(backend)
	require.NoError(t, err)
	return ledger
}

func TestNewBadgerLedgerRequiresBackend(t *testing.T) {
	_, err := NewBadgerLedger(nil)
	assert.ErrorIs(t, err, ErrBackendRequired)
}

func TestUsageOfUnknownDayIsZero(t *testing.T) {
	ledger := setupLedger(t)

	usage, err := ledger.Usage(context.Background(), "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, int64(0), usage)
}

func TestCommitAccumulates(t *testing.T) {
	ledger := setupLedger(t)
	ctx := context.Background()

	total, err := ledger.Commit(ctx, "2026-03-02", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), total)

	total, err = ledger.Commit(ctx, "2026-03-02", 50)
	require.NoError(t, err)
	assert.Equal(t, int64(150), total)

	usage, err := ledger.Usage(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, int64(150), usage)
}

func TestCommitRejectsNegativeUnits(t *testing.T) {
	ledger := setupLedger(t)

	_, err := ledger.Commit(context.Background(), "2026-03-02", -1)
	assert.ErrorIs(t, err, ErrNegativeUnits)
}

func TestDaysAreIndependent(t *testing.T) {
	ledger := setupLedger(t)
	ctx := context.Background()

	_, err := ledger.Commit(ctx, "2026-03-02", 100)
	require.NoError(t, err)

	usage, err := ledger.Usage(ctx, "2026-03-03")
	require.NoError(t, err)
	assert.Equal(t, int64(0), usage, "a new day starts from zero")
}

func TestConcurrentCommitsLoseNoUpdates(t *testing.T) {
	ledger := setupLedger(t)
	ctx := context.Background()

	const workers = 20
	const perWorker = int64(5)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Commit(ctx, "2026-03-02", perWorker)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	usage, err := ledger.Usage(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, int64(workers)*perWorker, usage)
}

func TestUsageIsMonotonicWithinADay(t *testing.T) {
	ledger := setupLedger(t)
	ctx := context.Background()

	var last int64
	for _, units := range []int64{7, 0, 13, 1} {
		total, err := ledger.Commit(ctx, "2026-03-02", units)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, total, last)
		last = total
	}
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2026-03-02", DayKey(mustParse(t, "2026-03-02T15:04:05Z")))
	// Keys are UTC so the reset boundary is the same everywhere.
	assert.Equal(t, "2026-03-03", DayKey(mustParse(t, "2026-03-02T23:30:00-05:00")))
}
