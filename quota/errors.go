package quota

import (
	"errors"
	"fmt"
)

var (
	// ErrLedgerRequired is returned when a ledger is not provided.
	ErrLedgerRequired = errors.New("quota ledger required")

	// ErrBackendRequired is returned when a storage backend is not provided.
	ErrBackendRequired = errors.New("storage backend required")

	// ErrBudgetExceeded rejects a request before any retrieval or
	// generation work happens. Match with errors.Is.
	ErrBudgetExceeded = errors.New("daily budget exceeded")

	// ErrNegativeUnits is returned for a commit of negative units; the
	// ledger is append-only and never decreases within a day.
	ErrNegativeUnits = errors.New("negative units")
)

// BudgetExceededError carries the remaining budget so a rejected caller can
// decide whether a smaller request could still fit today.
type BudgetExceededError struct {
	Remaining int64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("daily budget exceeded: %d units remaining, resets at the next calendar day", e.Remaining)
}

func (e *BudgetExceededError) Unwrap() error {
	return ErrBudgetExceeded
}
