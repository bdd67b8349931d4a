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


// Package mock provides a test double for the lookup interface.
package mock

import (
	"context"

	"github.com/pressline/newsanalyst/lookup"
)

// MockLookup implements lookup.Lookup with injectable behavior.
type MockLookup struct {
	LookupFunc func(ctx context.Context, query string) (string, error)

	// Queries records every query passed to Lookup.
	Queries []string
}

var _ lookup.Lookup = (*MockLookup)(nil)

func (m *MockLookup) Lookup(ctx context.Context, query string) (string, error) {
	m.Queries = append(m.Queries, query)
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, query)
	}
	return "mock reference text for: " + query, nil
}
