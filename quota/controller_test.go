package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func fixedClock(t *testing.T, value string) func() time.Time {
	instant := mustParse(t, value)
	return func() time.Time { return instant }
}

func setupController(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	ledger := setupLedger(t)
	controller, err := NewController(ledger, opts...)
	require.NoError(t, err)
	return controller
}

func TestNewControllerRequiresLedger(t *testing.T) {
	_, err := NewController(nil)
	assert.ErrorIs(t, err, ErrLedgerRequired)
}

func TestAdmitAndCommit(t *testing.T) {
	controller := setupController(t,
		WithDailyLimit(1000),
		WithAnswerAllowance(100),
		WithClock(fixedClock(t, "2026-03-02T10:00:00Z")))
	ctx := context.Background()

	admission, err := controller.Admit(ctx, "What happened in AI news this week?")
	require.NoError(t, err)

	require.NoError(t, admission.Commit(ctx, "A short answer."))

	snapshot, err := controller.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", snapshot.Day)
	assert.Equal(t, int64(1000), snapshot.Limit)
	assert.Equal(t, int64(len("What happened in AI news this week?")+len("A short answer.")), snapshot.Used)
	assert.Equal(t, snapshot.Limit-snapshot.Used, snapshot.Remaining)
}

func TestAdmitRejectsWhenEstimateWouldExceed(t *testing.T) {
	controller := setupController(t,
		WithDailyLimit(100),
		WithAnswerAllowance(90),
		WithClock(fixedClock(t, "2026-03-02T10:00:00Z")))

	_, err := controller.Admit(context.Background(), "a question longer than ten bytes")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBudgetExceeded)

	var rejection *BudgetExceededError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, int64(100), rejection.Remaining, "nothing was consumed before rejection")
}

func TestAdmitRejectsAtLimit(t *testing.T) {
	controller := setupController(t,
		WithDailyLimit(50),
		WithAnswerAllowance(10),
		WithClock(fixedClock(t, "2026-03-02T10:00:00Z")))
	ctx := context.Background()

	_, err := controller.ledger.Commit(ctx, "2026-03-02", 50)
	require.NoError(t, err)

	_, err = controller.Admit(ctx, "hi")
	require.ErrorIs(t, err, ErrBudgetExceeded)

	var rejection *BudgetExceededError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, int64(0), rejection.Remaining)
}

func TestAbortChargesQuestionOnly(t *testing.T) {
	controller := setupController(t,
		WithDailyLimit(1000),
		WithAnswerAllowance(100),
		WithClock(fixedClock(t, "2026-03-02T10:00:00Z")))
	ctx := context.Background()

	question := "a question that later fails"
	admission, err := controller.Admit(ctx, question)
	require.NoError(t, err)

	require.NoError(t, admission.Abort(ctx))

	snapshot, err := controller.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(question)), snapshot.Used)
}

func TestAdmissionDoesNotConsumeBeforeCommit(t *testing.T) {
	controller := setupController(t,
		WithDailyLimit(1000),
		WithAnswerAllowance(100),
		WithClock(fixedClock(t, "2026-03-02T10:00:00Z")))
	ctx := context.Background()

	_, err := controller.Admit(ctx, "pending question")
	require.NoError(t, err)

	snapshot, err := controller.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snapshot.Used, "admission reserves nothing until commit")
}

func TestBudgetResetsOnNewDay(t *testing.T) {
	ledger := setupLedger(t)
	ctx := context.Background()

	first, err := NewController(ledger,
		WithDailyLimit(100),
		WithAnswerAllowance(10),
		WithClock(fixedClock(t, "2026-03-02T10:00:00Z")))
	require.NoError(t, err)

	_, err = ledger.Commit(ctx, "2026-03-02", 100)
	require.NoError(t, err)
	_, err = first.Admit(ctx, "hi")
	require.ErrorIs(t, err, ErrBudgetExceeded)

	nextDay, err := NewController(ledger,
		WithDailyLimit(100),
		WithAnswerAllowance(10),
		WithClock(fixedClock(t, "2026-03-03T00:01:00Z")))
	require.NoError(t, err)

	admission, err := nextDay.Admit(ctx, "hi")
	require.NoError(t, err)
	require.NoError(t, admission.Commit(ctx, "ok"))
}
