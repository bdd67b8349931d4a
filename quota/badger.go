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
	"errors"
	"sync"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/mus-format/mus-go/varint"
	"github.com/pressline/newsanalyst/corpus/badger"
)

// ledgerPrefix namespaces ledger keys so the ledger can share a backend
// with other repositories.
const ledgerPrefix = "newqta"

// BadgerLedger persists daily usage in BadgerDB, one key per calendar day.
// A mutex serializes the read-modify-write of Commit so concurrent requests
// never lose updates.
type BadgerLedger struct {
	backend *badger.Backend
	mu      sync.Mutex
}

var _ Ledger = (*BadgerLedger)(nil)

// NewBadgerLedger creates a ledger on the given backend. The backend may be
// shared with a corpus store; ledger keys live under their own prefix.
func NewBadgerLedger(backend *badger.Backend) (*BadgerLedger, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &BadgerLedger{backend: backend}, nil
}

func dayKeyBytes(day string) []byte {
	return append([]byte(ledgerPrefix), day...)
}

// Usage reads the units consumed on the given day.
func (l *BadgerLedger) Usage(_ context.Context, day string) (int64, error) {
	var units int64
	err := l.backend.WithTx(func(tx *badgerdb.Txn) error {
		item, err := tx.Get(dayKeyBytes(day))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, _, err := varint.Int64.Unmarshal(val)
			if err != nil {
				return err
			}
			units = decoded
			return nil
		})
	}, false)
	if err != nil {
		return 0, err
	}
	return units, nil
}

// Commit adds units to the day's entry and returns the new total.
func (l *BadgerLedger) Commit(_ context.Context, day string, units int64) (int64, error) {
	if units < 0 {
		return 0, ErrNegativeUnits
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var total int64
	err := l.backend.WithTx(func(tx *badgerdb.Txn) error {
		key := dayKeyBytes(day)

		var current int64
		item, err := tx.Get(key)
		if err != nil && !errors.Is(err, badgerdb.ErrKeyNotFound) {
			return err
		}
		if err == nil {
			valErr := item.Value(func(val []byte) error {
				decoded, _, err := varint.Int64.Unmarshal(val)
				if err != nil {
					return err
				}
				current = decoded
				return nil
			})
			if valErr != nil {
				return valErr
			}
		}

		total = current + units
		encoded := make([]byte, varint.Int64.Size(total))
		varint.Int64.Marshal(total, encoded)

		if err := tx.Set(key, encoded); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return total, nil
}
