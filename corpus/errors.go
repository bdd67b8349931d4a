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


package corpus

import "errors"

var (
	// ErrStoreUnavailable indicates a backend I/O failure. Backends wrap
	// their native errors with this sentinel so callers can distinguish
	// an unavailable store from an empty one.
	ErrStoreUnavailable = errors.New("corpus store unavailable")

	// ErrStoreClosed indicates that the store has been closed.
	ErrStoreClosed = errors.New("corpus store is closed")

	// ErrSerializationFailed indicates a record could not be encoded or
	// decoded by the backend.
	ErrSerializationFailed = errors.New("record serialization failed")

	// ErrUnknownBackend indicates the configured backend name does not
	// match any supported implementation.
	ErrUnknownBackend = errors.New("unknown corpus backend")
)
