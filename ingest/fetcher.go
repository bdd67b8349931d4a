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


package ingest

import (
	"context"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"github.com/pressline/newsanalyst/core"
)

// Fetcher pulls the current set of articles from one news source.
// Implementations return the full current view of the source; the pipeline
// handles deduplication against the corpus.
type Fetcher interface {
	// Fetch returns the articles currently published by the source.
	Fetch(ctx context.Context) ([]core.Article, error)

	// Name identifies the source in reports and provenance metadata.
	Name() string
}

// RSSFetcher reads articles from an RSS or Atom feed.
type RSSFetcher struct {
	name     string
	url      string
	parser   *gofeed.Parser
	stripper *bluemonday.Policy
}

var _ Fetcher = (*RSSFetcher)(nil)

// NewRSSFetcher creates a fetcher for the feed at url. The name becomes the
// Source field of every article the fetcher produces.
func NewRSSFetcher(name, url string) *RSSFetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 30 * time.Second}
	return &RSSFetcher{
		name:     name,
		url:      url,
		parser:   parser,
		stripper: bluemonday.StrictPolicy(),
	}
}

func (f *RSSFetcher) Name() string {
	return f.name
}

// Fetch downloads and parses the feed. Descriptions frequently arrive as
// HTML fragments; they are reduced to plain text before chunking sees them.
func (f *RSSFetcher) Fetch(ctx context.Context) ([]core.Article, error) {
	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, err
	}

	articles := make([]core.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		article := core.Article{
			Title:       strings.TrimSpace(item.Title),
			Link:        strings.TrimSpace(item.Link),
			Description: f.plainText(item.Description),
			Source:      f.name,
		}
		if item.PublishedParsed != nil {
			article.PubDate = item.PublishedParsed.UTC()
		}
		if article.Description == "" {
			article.Description = f.plainText(item.Content)
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func (f *RSSFetcher) plainText(fragment string) string {
	stripped := f.stripper.Sanitize(fragment)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
