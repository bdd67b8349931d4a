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
	"fmt"
	"strings"

	"github.com/pressline/newsanalyst/ai"
)

// Route names the evidence path a question is sent down.
type Route string

const (
	// RouteCorpus retrieves from the local news corpus.
	RouteCorpus Route = "corpus"

	// RouteGeneral queries the general-knowledge lookup source.
	RouteGeneral Route = "general"
)

// RouteClassifier decides the route for a question. Implementations must be
// pure functions of the question text: the same question always yields the
// same route, and a decision is always reached.
type RouteClassifier interface {
	Classify(ctx context.Context, question string) (Route, error)
}

// RuleClassifier routes by keyword inspection. A question phrased as a
// general-knowledge request that carries no news or recency phrasing goes to
// the lookup source; everything else goes to the corpus. The corpus is the
// system's primary domain, so the bias runs that way on purpose.
type RuleClassifier struct{}

var _ RouteClassifier = (*RuleClassifier)(nil)

var generalPhrases = []string{
	"what is",
	"what are",
	"who was",
	"who is",
	"define",
	"explain",
	"how does",
	"history of",
	"meaning of",
}

var recencyPhrases = []string{
	"news",
	"today",
	"yesterday",
	"latest",
	"recent",
	"current",
	"this week",
	"this month",
	"announced",
	"happening",
	"update",
}

func (RuleClassifier) Classify(_ context.Context, question string) (Route, error) {
	lowered := strings.ToLower(question)

	if containsAny(lowered, generalPhrases) && !containsAny(lowered, recencyPhrases) {
		return RouteGeneral, nil
	}
	return RouteCorpus, nil
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

const routingPromptTemplate = `Analyze this user question and determine the best approach:

Question: %s

Return "corpus" if this is about recent news, current events, or requires up-to-date information.
Return "general" if this is about general knowledge, historical facts, or established concepts.

Only return "corpus" or "general" - nothing else.`

// ModelClassifier asks a generation model to emit exactly one route token.
// An unparseable response falls back to the corpus route rather than leaving
// the question unrouted.
type ModelClassifier struct {
	generator ai.Generator
}

var _ RouteClassifier = (*ModelClassifier)(nil)

// NewModelClassifier creates a model-backed classifier.
func NewModelClassifier(generator ai.Generator) (*ModelClassifier, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	return &ModelClassifier{generator: generator}, nil
}

func (c *ModelClassifier) Classify(ctx context.Context, question string) (Route, error) {
	response, err := c.generator.Generate(ctx, fmt.Sprintf(routingPromptTemplate, question))
	if err != nil {
		return "", err
	}

	switch token := strings.ToLower(strings.TrimSpace(response)); token {
	case string(RouteGeneral):
		return RouteGeneral, nil
	case string(RouteCorpus):
		return RouteCorpus, nil
	default:
		return RouteCorpus, nil
	}
}
