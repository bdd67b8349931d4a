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
	"time"
)

// DayKeyFormat is the layout of ledger day keys.
const DayKeyFormat = "2006-01-02"

// DayKey returns the ledger key for the given instant, in UTC.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayKeyFormat)
}

// Ledger is the durable day-keyed usage log. Entries are created lazily,
// never deleted, and the current day's value only grows.
type Ledger interface {
	// Usage returns the units consumed on the given day, 0 if the day has
	// no entry yet.
	Usage(ctx context.Context, day string) (int64, error)

	// Commit atomically adds units to the day's entry, creating it if
	// absent, and returns the new total. Concurrent commits must not lose
	// updates.
	Commit(ctx context.Context, day string, units int64) (int64, error)
}
