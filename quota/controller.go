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


package quota

import (
	"context"
	"log/slog"
	"time"
)

// Defaults for the daily budget. Units are bytes of question and answer
// text, a deterministic stand-in for generation cost.
const (
	DefaultDailyLimit      = 200_000
	DefaultAnswerAllowance = 2_048
)

// Controller admits requests against a shared daily budget with an
// estimate-then-commit protocol: reject before any retrieval or generation
// work if the estimate would blow the limit, then charge the measured cost
// once the request finishes.
type Controller struct {
	ledger    Ledger
	limit     int64
	allowance int64
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller) error

// WithDailyLimit sets the budget limit in units per calendar day.
func WithDailyLimit(limit int64) Option {
	return func(c *Controller) error {
		if limit > 0 {
			c.limit = limit
		}
		return nil
	}
}

// WithAnswerAllowance sets the conservative per-request estimate reserved
// for the expected answer.
func WithAnswerAllowance(units int64) Option {
	return func(c *Controller) error {
		if units >= 0 {
			c.allowance = units
		}
		return nil
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) error {
		if now != nil {
			c.now = now
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "quota")
		return nil
	}
}

// NewController creates an admission controller over the given ledger.
func NewController(ledger Ledger, opts ...Option) (*Controller, error) {
	if ledger == nil {
		return nil, ErrLedgerRequired
	}

	c := &Controller{
		ledger:    ledger,
		limit:     DefaultDailyLimit,
		allowance: DefaultAnswerAllowance,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    slog.Default().With("component", "quota"),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Admission is an admitted request's claim on the budget. Exactly one of
// Commit or Abort must be called when the request finishes.
type Admission struct {
	controller   *Controller
	day          string
	questionCost int64
}

// Admit checks the question against today's remaining budget. A rejection
// is a *BudgetExceededError carrying the remaining units; no retrieval or
// generation work may happen after one.
func (c *Controller) Admit(ctx context.Context, question string) (*Admission, error) {
	day := DayKey(c.now())

	usage, err := c.ledger.Usage(ctx, day)
	if err != nil {
		return nil, err
	}

	remaining := c.limit - usage
	if remaining < 0 {
		remaining = 0
	}

	questionCost := int64(len(question))
	estimate := questionCost + c.allowance

	if usage >= c.limit || usage+estimate > c.limit {
		c.logger.Info("request rejected by budget",
			"day", day, "used", usage, "estimate", estimate, "limit", c.limit)
		return nil, &BudgetExceededError{Remaining: remaining}
	}

	return &Admission{controller: c, day: day, questionCost: questionCost}, nil
}

// Commit charges the measured cost of a completed request: the question
// plus the answer actually produced.
func (a *Admission) Commit(ctx context.Context, answer string) error {
	_, err := a.controller.ledger.Commit(ctx, a.day, a.questionCost+int64(len(answer)))
	return err
}

// Abort charges only the question cost. Called when the request failed
// after admission, so the work already spent still counts.
func (a *Admission) Abort(ctx context.Context) error {
	_, err := a.controller.ledger.Commit(ctx, a.day, a.questionCost)
	return err
}

// Snapshot reports today's budget state.
type Snapshot struct {
	Day       string `json:"day"`
	Limit     int64  `json:"daily_limit"`
	Used      int64  `json:"used_today"`
	Remaining int64  `json:"remaining_today"`
}

// Snapshot returns the current day's usage against the limit.
func (c *Controller) Snapshot(ctx context.Context) (*Snapshot, error) {
	day := DayKey(c.now())
	usage, err := c.ledger.Usage(ctx, day)
	if err != nil {
		return nil, err
	}

	remaining := c.limit - usage
	if remaining < 0 {
		remaining = 0
	}

	return &Snapshot{Day: day, Limit: c.limit, Used: usage, Remaining: remaining}, nil
}
