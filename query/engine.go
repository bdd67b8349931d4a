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


package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pressline/newsanalyst/ai"
	"github.com/pressline/newsanalyst/corpus"
	"github.com/pressline/newsanalyst/lookup"
)

// DefaultTopK is the number of corpus hits retrieved per question.
const DefaultTopK = 3

// NoEvidenceAnswer is returned when retrieval produced nothing worth
// synthesizing. It is a successful response, not an error.
const NoEvidenceAnswer = "I could not find relevant information to answer " +
	"that question. Try rephrasing it, or ask about a different topic."

const synthesisPromptTemplate = `You are a news analyst. Answer the question using only the evidence below.

Rules:
- Use only facts stated in the evidence. Do not add outside knowledge.
- Cite only source names and links that appear literally in the evidence. Never invent a citation.
- If the evidence answers the question only partially, say what is missing instead of guessing.

Evidence:
%s

Question: %s`

// Result is the outcome of one answered question.
type Result struct {
	Route  Route
	Answer string
}

// Engine answers questions through a linear pass: classify the route,
// retrieve evidence down that route, then synthesize a grounded answer.
// There is no backtracking between stages.
type Engine struct {
	store       corpus.Store
	embedder    ai.Embedder
	generator   ai.Generator
	classifier  RouteClassifier
	lookup      lookup.Lookup
	topK        int
	minEvidence int
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithTopK sets how many corpus hits are retrieved per question.
func WithTopK(k int) Option {
	return func(e *Engine) error {
		if k < 1 {
			k = 1
		}
		e.topK = k
		return nil
	}
}

// WithMinEvidenceLength sets the shortest evidence text, in bytes, that
// still triggers synthesis.
func WithMinEvidenceLength(n int) Option {
	return func(e *Engine) error {
		if n < 0 {
			n = 0
		}
		e.minEvidence = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "query")
		return nil
	}
}

// NewEngine creates a query engine over the given capabilities.
func NewEngine(
	store corpus.Store,
	embedder ai.Embedder,
	generator ai.Generator,
	classifier RouteClassifier,
	lookupSource lookup.Lookup,
	opts ...Option,
) (*Engine, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	if classifier == nil {
		return nil, ErrClassifierRequired
	}
	if lookupSource == nil {
		return nil, ErrLookupRequired
	}

	e := &Engine{
		store:       store,
		embedder:    embedder,
		generator:   generator,
		classifier:  classifier,
		lookup:      lookupSource,
		topK:        DefaultTopK,
		minEvidence: DefaultMinEvidenceLength,
		logger:      slog.Default().With("component", "query"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Ask answers a question. Retrieval and generation errors propagate without
// retry; thin evidence yields NoEvidenceAnswer with no generation call.
func (e *Engine) Ask(ctx context.Context, question string) (*Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	route, err := e.classifier.Classify(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("routing failed: %w", err)
	}
	e.logger.Debug("question routed", "route", route)

	evidence, err := e.retrieve(ctx, route, question)
	if err != nil {
		return nil, err
	}

	if len(evidence) < e.minEvidence {
		e.logger.Info("no usable evidence, skipping synthesis", "route", route)
		return &Result{Route: route, Answer: NoEvidenceAnswer}, nil
	}

	answer, err := e.generator.Generate(ctx, fmt.Sprintf(synthesisPromptTemplate, evidence, question))
	if err != nil {
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}

	return &Result{Route: route, Answer: answer}, nil
}

func (e *Engine) retrieve(ctx context.Context, route Route, question string) (string, error) {
	switch route {
	case RouteGeneral:
		evidence, err := e.lookup.Lookup(ctx, question)
		if errors.Is(err, lookup.ErrNoResults) {
			// Not a failure; the short-circuit below answers it.
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("lookup failed: %w", err)
		}
		return strings.TrimSpace(evidence), nil

	default:
		vector, err := e.embedder.EmbedText(ctx, question)
		if err != nil {
			return "", fmt.Errorf("question embedding failed: %w", err)
		}

		hits, err := e.store.Search(ctx, vector, e.topK)
		if err != nil {
			return "", fmt.Errorf("corpus search failed: %w", err)
		}

		return formatEvidence(hits), nil
	}
}
