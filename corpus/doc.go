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


// Package corpus defines the storage abstraction for embedded news chunks.
//
// A Store holds (text, vector, metadata) records and answers similarity
// searches over them. Three interchangeable backends implement the
// interface:
//
//   - badger: an embedded local index (corpus/badger)
//   - pgvector: PostgreSQL with the pgvector extension (corpus/pgvector)
//   - milvus: a managed vector database (corpus/milvus)
//
// Backend constructors return the Store interface rather than concrete
// types, so consumers cannot couple to one implementation. The backend is
// selected once at startup from a Config; call sites never branch on it.
//
// # Failure policy
//
// Backend I/O errors wrap ErrStoreUnavailable and are never reported as an
// empty store. The one exception is ExistingFingerprints on a store that
// has never been written, which returns an empty set so a first ingestion
// run can proceed.
//
// # Concurrency
//
// The ingestion pipeline is the sole writer (single-writer assumption);
// searches may run concurrently with a write and may or may not observe
// it. No read-your-writes guarantee is made.
package corpus
