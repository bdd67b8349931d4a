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


// Package ai provides abstractions for the AI services the analyst consumes.
//
// It defines interfaces for text embeddings and answer generation so that
// the ingestion pipeline and query engine depend on abstractions rather
// than on a concrete model vendor. The openai subpackage implements both
// against any OpenAI-compatible API; the mock subpackage provides
// deterministic test doubles.
package ai
