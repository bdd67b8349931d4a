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


package core

import "fmt"

// ValidateArticle validates an Article according to domain rules.
//
// Validation rules:
//   - Link must not be empty (it is the dedup fingerprint)
//
// NOT validated:
//   - Description (some feeds publish title-only items)
//   - PubDate (feeds disagree on formats; a zero time is tolerated)
func ValidateArticle(article *Article) error {
	if article == nil {
		return fmt.Errorf("%w: article is nil", ErrInvalidArticle)
	}

	if article.Link == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrEmptyLink)
	}

	return nil
}

// ValidateRecord validates a Record according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Metadata must carry the source and link provenance keys,
//     otherwise the record cannot be cited
//
// NOT validated:
//   - Vector (dimension is a property of the embedding model, not the domain)
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyText)
	}

	if record.Metadata[MetaLink] == "" || record.Metadata[MetaSource] == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrMissingProvenance)
	}

	return nil
}
