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
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pressline/newsanalyst/ai"
	"github.com/pressline/newsanalyst/core"
	"github.com/pressline/newsanalyst/corpus"
)

// Status classifies the outcome of one ingestion run.
type Status string

const (
	// StatusSuccess means new articles were embedded and stored.
	StatusSuccess Status = "success"

	// StatusUpToDate means the sources returned articles but every one of
	// them was already in the corpus.
	StatusUpToDate Status = "up_to_date"

	// StatusFailed means the run could not complete. Nothing was stored.
	StatusFailed Status = "failed"

	// StatusNoSourceData means no source produced any articles this run.
	// Not an error; per-source failures are recorded in the report.
	StatusNoSourceData Status = "no_source_data"
)

// SourceResult records the outcome of one source's fetch within a run.
type SourceResult struct {
	Fetched int   `json:"fetched"` // articles the feed returned
	New     int   `json:"new"`     // of those, articles added this run
	Err     error `json:"-"`
}

// Report summarizes one ingestion run.
type Report struct {
	Status        Status                  `json:"status"`
	TotalArticles int                     `json:"total_articles"` // distinct articles in the corpus after the run
	NewArticles   int                     `json:"new_articles"`   // articles not already in the corpus
	NewChunks     int                     `json:"new_chunks"`     // records written this run
	Sources       map[string]SourceResult `json:"sources"`
	Err           error                   `json:"-"` // set only when Status is StatusFailed
}

// Pipeline pulls articles from configured sources, skips everything the
// corpus already holds, and embeds and stores the remainder as one batch.
type Pipeline struct {
	store     corpus.Store
	embedder  ai.Embedder
	sources   []Fetcher
	fetchPool *ants.Pool
	chunker   *chunker
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent source fetching.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.fetchPool != nil {
			p.fetchPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.fetchPool = pool
		return nil
	}
}

// WithChunking overrides the chunk window size and overlap.
func WithChunking(size, overlap int) Option {
	return func(p *Pipeline) error {
		c, err := newChunker(size, overlap)
		if err != nil {
			return err
		}
		p.chunker = c
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "ingest")
		return nil
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) error {
		if now != nil {
			p.now = now
		}
		return nil
	}
}

// NewPipeline creates an ingestion pipeline over the given store, embedder,
// and sources.
func NewPipeline(store corpus.Store, embedder ai.Embedder, sources []Fetcher, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	defaultChunker, err := newChunker(DefaultChunkSize, DefaultChunkOverlap)
	if err != nil {
		pool.Release()
		return nil, err
	}

	p := &Pipeline{
		store:     store,
		embedder:  embedder,
		sources:   sources,
		fetchPool: pool,
		chunker:   defaultChunker,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Run executes one ingestion pass. It never returns an error; failures are
// reported through the Report so a scheduled caller can keep looping.
func (p *Pipeline) Run(ctx context.Context) *Report {
	report := &Report{Sources: make(map[string]SourceResult, len(p.sources))}

	articles := p.fetchAll(ctx, report)

	// Source failures are per-source and non-fatal; a run where nothing
	// was fetched is a no-op, not an error.
	if len(articles) == 0 {
		report.Status = StatusNoSourceData
		return report
	}

	existing, err := p.store.ExistingFingerprints(ctx)
	if err != nil {
		p.logger.Error("error reading corpus fingerprints", "err", err)
		report.Status = StatusFailed
		report.Err = err
		return report
	}
	report.TotalArticles = len(existing)

	fresh := dedupe(articles, existing)
	report.NewArticles = len(fresh)
	for _, article := range fresh {
		result := report.Sources[article.Source]
		result.New++
		report.Sources[article.Source] = result
	}
	if len(fresh) == 0 {
		report.Status = StatusUpToDate
		return report
	}

	records, err := p.buildRecords(ctx, fresh)
	if err != nil {
		p.logger.Error("error embedding new articles", "err", err)
		report.Status = StatusFailed
		report.Err = err
		return report
	}

	if err := p.store.Add(ctx, records); err != nil {
		p.logger.Error("error storing new records", "err", err)
		report.Status = StatusFailed
		report.Err = err
		return report
	}

	report.TotalArticles = len(existing) + len(fresh)
	report.NewChunks = len(records)
	report.Status = StatusSuccess
	p.logger.Info("ingestion complete",
		"total_articles", report.TotalArticles,
		"new_articles", report.NewArticles,
		"new_chunks", report.NewChunks)
	return report
}

// fetchAll runs every source's fetch on the worker pool and gathers the
// results. A source that fails is recorded and skipped; the run goes on
// with whatever the others returned.
func (p *Pipeline) fetchAll(ctx context.Context, report *Report) []core.Article {
	type fetchResult struct {
		name     string
		articles []core.Article
		err      error
	}

	results := make(chan fetchResult, len(p.sources))
	var wg sync.WaitGroup

	for _, source := range p.sources {
		source := source
		wg.Add(1)
		submitErr := p.fetchPool.Submit(func() {
			defer wg.Done()
			articles, err := source.Fetch(ctx)
			results <- fetchResult{name: source.Name(), articles: articles, err: err}
		})
		if submitErr != nil {
			wg.Done()
			results <- fetchResult{name: source.Name(), err: submitErr}
		}
	}

	wg.Wait()
	close(results)

	var articles []core.Article
	for result := range results {
		if result.err != nil {
			p.logger.Warn("source fetch failed", "source", result.name, "err", result.err)
			report.Sources[result.name] = SourceResult{Err: result.err}
			continue
		}
		report.Sources[result.name] = SourceResult{Fetched: len(result.articles)}
		articles = append(articles, result.articles...)
	}

	return articles
}

// dedupe drops articles whose link is already in the corpus, and collapses
// duplicate links within the batch itself. Articles without a link cannot
// be fingerprinted and are dropped.
func dedupe(articles []core.Article, existing map[string]struct{}) []core.Article {
	seen := make(map[string]struct{}, len(existing))
	for link := range existing {
		seen[link] = struct{}{}
	}

	var fresh []core.Article
	for _, article := range articles {
		if article.Link == "" {
			continue
		}
		if _, ok := seen[article.Link]; ok {
			continue
		}
		seen[article.Link] = struct{}{}
		fresh = append(fresh, article)
	}

	return fresh
}

// buildRecords chunks the articles and embeds every chunk in one call, so a
// mid-batch embedding failure leaves nothing half-stored.
func (p *Pipeline) buildRecords(ctx context.Context, articles []core.Article) ([]core.Record, error) {
	now := p.now()

	type pending struct {
		chunk   core.Chunk
		ordinal int
	}

	var chunks []pending
	for _, article := range articles {
		for ordinal, chunk := range p.chunker.chunk(article, now) {
			chunks = append(chunks, pending{chunk: chunk, ordinal: ordinal})
		}
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.chunk.Text
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d vectors for %d chunks", len(vectors), len(texts))
	}

	records := make([]core.Record, len(chunks))
	for i, c := range chunks {
		records[i] = core.NewRecord(c.chunk, c.ordinal, vectors[i])
	}

	return records, nil
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.fetchPool != nil {
		p.fetchPool.Release()
	}
}
