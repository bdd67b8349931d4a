package query

import (
	"context"
	"errors"
	"testing"

	"github.com/pressline/newsanalyst/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleClassifier(t *testing.T) {
	tests := []struct {
		question string
		want     Route
	}{
		{question: "What happened in AI news this week?", want: RouteCorpus},
		{question: "Define photosynthesis", want: RouteGeneral},
		{question: "What is a transformer model?", want: RouteGeneral},
		{question: "What is the latest on the chip shortage?", want: RouteCorpus},
		{question: "Explain the history of the printing press", want: RouteGeneral},
		{question: "Any updates on the fusion experiment?", want: RouteCorpus},
		{question: "Tell me about semiconductors", want: RouteCorpus},
		{question: "Who was Ada Lovelace?", want: RouteGeneral},
	}

	classifier := RuleClassifier{}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			route, err := classifier.Classify(context.Background(), tt.question)
			require.NoError(t, err)
			assert.Equal(t, tt.want, route)
		})
	}
}

func TestRuleClassifierIsDeterministic(t *testing.T) {
	classifier := RuleClassifier{}
	question := "Explain the latest breakthroughs in AI news"

	first, err := classifier.Classify(context.Background(), question)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		route, err := classifier.Classify(context.Background(), question)
		require.NoError(t, err)
		assert.Equal(t, first, route)
	}
}

func TestModelClassifierParsesTokens(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     Route
	}{
		{name: "corpus token", response: "corpus", want: RouteCorpus},
		{name: "general token", response: "general", want: RouteGeneral},
		{name: "padded token", response: "  General\n", want: RouteGeneral},
		{name: "garbage defaults to corpus", response: "I think you should use the news corpus", want: RouteCorpus},
		{name: "empty defaults to corpus", response: "", want: RouteCorpus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := &mock.MockGenerator{
				GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
					return tt.response, nil
				},
			}
			classifier, err := NewModelClassifier(generator)
			require.NoError(t, err)

			route, err := classifier.Classify(context.Background(), "some question")
			require.NoError(t, err)
			assert.Equal(t, tt.want, route)
		})
	}
}

func TestModelClassifierPromptCarriesQuestion(t *testing.T) {
	generator := &mock.MockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "corpus", nil
		},
	}
	classifier, err := NewModelClassifier(generator)
	require.NoError(t, err)

	_, err = classifier.Classify(context.Background(), "What happened today?")
	require.NoError(t, err)
	require.Len(t, generator.Prompts, 1)
	assert.Contains(t, generator.Prompts[0], "What happened today?")
}

func TestModelClassifierPropagatesGenerationError(t *testing.T) {
	boom := errors.New("model down")
	generator := &mock.MockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", boom
		},
	}
	classifier, err := NewModelClassifier(generator)
	require.NoError(t, err)

	_, err = classifier.Classify(context.Background(), "anything")
	assert.ErrorIs(t, err, boom)
}

func TestNewModelClassifierRequiresGenerator(t *testing.T) {
	_, err := NewModelClassifier(nil)
	assert.ErrorIs(t, err, ErrGeneratorRequired)
}
