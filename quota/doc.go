// Package quota enforces a shared daily consumption budget across
// concurrent requests.
//
// Usage is tracked in a durable day-keyed ledger; the budget resets
// naturally when the calendar day changes. Admission follows an
// estimate-then-commit protocol so an over-budget request is rejected
// before it costs anything.
package quota
