package lookup

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/tools/wikipedia"
)

// DefaultUserAgent identifies lookup traffic to the Wikipedia API.
const DefaultUserAgent = "newsanalyst/1.0 (https://github.com/pressline/newsanalyst)"

// WikipediaLookup answers general-knowledge queries from Wikipedia.
type WikipediaLookup struct {
	tool wikipedia.Tool
}

var _ Lookup = (*WikipediaLookup)(nil)

// NewWikipedia creates a Wikipedia-backed lookup. An empty userAgent falls
// back to DefaultUserAgent; Wikipedia rejects anonymous clients.
func NewWikipedia(userAgent string) *WikipediaLookup {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &WikipediaLookup{tool: wikipedia.New(userAgent)}
}

// Lookup fetches article text for the query.
func (w *WikipediaLookup) Lookup(ctx context.Context, query string) (string, error) {
	result, err := w.tool.Call(ctx, query)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	result = strings.TrimSpace(result)
	if result == "" {
		return "", ErrNoResults
	}
	return result, nil
}
