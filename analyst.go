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


package newsanalyst

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pressline/newsanalyst/ai"
	"github.com/pressline/newsanalyst/ai/openai"
	"github.com/pressline/newsanalyst/core"
	"github.com/pressline/newsanalyst/corpus"
	badgerstore "github.com/pressline/newsanalyst/corpus/badger"
	"github.com/pressline/newsanalyst/corpus/milvus"
	"github.com/pressline/newsanalyst/corpus/pgvector"
	"github.com/pressline/newsanalyst/ingest"
	"github.com/pressline/newsanalyst/lookup"
	"github.com/pressline/newsanalyst/query"
	"github.com/pressline/newsanalyst/quota"
)

// DefaultLedgerPath is where the quota ledger lives when the corpus uses a
// remote backend and there is no local BadgerDB to share.
const DefaultLedgerPath = "./data/quota"

// OpenStore resolves the configured corpus backend once and opens it.
// Callers never branch on the backend kind after this point.
func OpenStore(ctx context.Context, cfg *corpus.Config) (corpus.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case corpus.BackendBadger:
		backend, err := badgerstore.OpenBackend(cfg.Path, false)
		if err != nil {
			return nil, err
		}
		store, err := badgerstore.NewStore(backend)
		if err != nil {
			backend.Close()
			return nil, err
		}
		return store, nil
	case corpus.BackendPgvector:
		return pgvector.NewStore(ctx, cfg)
	case corpus.BackendMilvus:
		return milvus.NewStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", corpus.ErrUnknownBackend, cfg.Backend)
	}
}

// Analyst bundles the corpus store, AI provider, admission controller, and
// query engine behind one handle. It is the type the CLI drives.
type Analyst struct {
	ledgerBackend *badgerstore.Backend
	store         corpus.Store
	provider      ai.Provider
	controller    *quota.Controller
	engine        *query.Engine
	logger        *slog.Logger
}

// AnalystOption configures an Analyst.
type AnalystOption func(*analystOptions)

type analystOptions struct {
	aiConfig        *ai.Config
	storeConfig     *corpus.Config
	ledgerPath      string
	dailyLimit      int64
	answerAllowance int64
	modelRouter     bool
	userAgent       string
}

// WithAIConfig sets the embedding/generation service configuration.
func WithAIConfig(config *ai.Config) AnalystOption {
	return func(o *analystOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithStoreConfig sets the corpus backend configuration.
func WithStoreConfig(config *corpus.Config) AnalystOption {
	return func(o *analystOptions) {
		if config != nil {
			o.storeConfig = config
		}
	}
}

// WithLedgerPath sets where the quota ledger is persisted. Ignored when the
// corpus itself runs on the embedded backend, which the ledger then shares.
func WithLedgerPath(path string) AnalystOption {
	return func(o *analystOptions) {
		if path != "" {
			o.ledgerPath = path
		}
	}
}

// WithDailyLimit sets the daily budget in units.
func WithDailyLimit(limit int64) AnalystOption {
	return func(o *analystOptions) {
		if limit > 0 {
			o.dailyLimit = limit
		}
	}
}

// WithAnswerAllowance sets the per-request budget estimate reserved for the
// expected answer.
func WithAnswerAllowance(units int64) AnalystOption {
	return func(o *analystOptions) {
		if units >= 0 {
			o.answerAllowance = units
		}
	}
}

// WithModelRouter routes questions with the generation model instead of the
// keyword rules.
func WithModelRouter() AnalystOption {
	return func(o *analystOptions) {
		o.modelRouter = true
	}
}

// WithLookupUserAgent sets the user agent for general-knowledge lookups.
func WithLookupUserAgent(userAgent string) AnalystOption {
	return func(o *analystOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// New wires up a complete analyst: corpus store, AI provider, Wikipedia
// lookup, admission controller, and query engine.
func New(ctx context.Context, opts ...AnalystOption) (*Analyst, error) {
	options := &analystOptions{
		aiConfig:        ai.DefaultConfig(),
		storeConfig:     corpus.DefaultConfig(),
		ledgerPath:      DefaultLedgerPath,
		dailyLimit:      quota.DefaultDailyLimit,
		answerAllowance: quota.DefaultAnswerAllowance,
	}
	for _, opt := range opts {
		opt(options)
	}

	if err := options.storeConfig.Validate(); err != nil {
		return nil, err
	}

	var (
		store         corpus.Store
		ledgerBackend *badgerstore.Backend
		err           error
	)

	// The embedded corpus backend and the quota ledger share one BadgerDB;
	// a remote corpus still keeps its ledger locally.
	if options.storeConfig.Backend == corpus.BackendBadger {
		ledgerBackend, err = badgerstore.OpenBackend(options.storeConfig.Path, false)
		if err != nil {
			return nil, err
		}
		store, err = badgerstore.NewStore(ledgerBackend)
		if err != nil {
			ledgerBackend.Close()
			return nil, err
		}
	} else {
		store, err = OpenStore(ctx, options.storeConfig)
		if err != nil {
			return nil, err
		}
		ledgerBackend, err = badgerstore.OpenBackend(options.ledgerPath, false)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		ledgerBackend.Close()
		store.Close()
		return nil, err
	}

	a, err := assemble(store, ledgerBackend, provider, options)
	if err != nil {
		provider.Close()
		ledgerBackend.Close()
		store.Close()
		return nil, err
	}
	return a, nil
}

func assemble(store corpus.Store, ledgerBackend *badgerstore.Backend, provider ai.Provider, options *analystOptions) (*Analyst, error) {
	ledger, err := quota.NewBadgerLedger(ledgerBackend)
	if err != nil {
		return nil, err
	}

	controller, err := quota.NewController(ledger,
		quota.WithDailyLimit(options.dailyLimit),
		quota.WithAnswerAllowance(options.answerAllowance))
	if err != nil {
		return nil, err
	}

	var classifier query.RouteClassifier = query.RuleClassifier{}
	if options.modelRouter {
		classifier, err = query.NewModelClassifier(provider.Generator())
		if err != nil {
			return nil, err
		}
	}

	engine, err := query.NewEngine(store, provider.Embedder(), provider.Generator(),
		classifier, lookup.NewWikipedia(options.userAgent))
	if err != nil {
		return nil, err
	}

	return &Analyst{
		ledgerBackend: ledgerBackend,
		store:         store,
		provider:      provider,
		controller:    controller,
		engine:        engine,
		logger:        slog.Default(),
	}, nil
}

// Store exposes the corpus store for diagnostics.
func (a *Analyst) Store() corpus.Store {
	return a.store
}

// Controller exposes the admission controller.
func (a *Analyst) Controller() *quota.Controller {
	return a.controller
}

// NewIngestionPipeline builds an ingestion pipeline over the analyst's
// store and embedder for the given sources.
func (a *Analyst) NewIngestionPipeline(sources []ingest.Fetcher, opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(a.store, a.provider.Embedder(), sources, opts...)
}

// Ask answers one question under the daily budget. An over-budget request
// is rejected with quota.ErrBudgetExceeded before any model work; the
// measured cost is committed once the engine finishes either way.
func (a *Analyst) Ask(ctx context.Context, question string) (*query.Result, error) {
	admission, err := a.controller.Admit(ctx, question)
	if err != nil {
		return nil, err
	}

	result, err := a.engine.Ask(ctx, question)
	if err != nil {
		if abortErr := admission.Abort(ctx); abortErr != nil {
			a.logger.Error("error committing failed request cost", "err", abortErr)
		}
		return nil, err
	}

	if commitErr := admission.Commit(ctx, result.Answer); commitErr != nil {
		a.logger.Error("error committing request cost", "err", commitErr)
	}
	return result, nil
}

// Browse returns every stored record for the public browse view.
func (a *Analyst) Browse(ctx context.Context) ([]core.Record, error) {
	return a.store.AllRecords(ctx)
}

// Usage reports today's budget state.
func (a *Analyst) Usage(ctx context.Context) (*quota.Snapshot, error) {
	return a.controller.Snapshot(ctx)
}

// Close releases the AI provider and storage.
func (a *Analyst) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}

	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing corpus store", "err", err)
		return err
	}

	// The store may already own the backend; closing twice is tolerated.
	if !a.ledgerBackend.IsClosed() {
		if err := a.ledgerBackend.Close(); err != nil {
			a.logger.Error("error closing ledger storage", "err", err)
			return err
		}
	}
	return nil
}
