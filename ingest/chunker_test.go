package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/pressline/newsanalyst/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunkerValidation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{name: "valid defaults", size: DefaultChunkSize, overlap: DefaultChunkOverlap},
		{name: "zero overlap", size: 10, overlap: 0},
		{name: "overlap equals size", size: 10, overlap: 10, wantErr: true},
		{name: "overlap exceeds size", size: 10, overlap: 20, wantErr: true},
		{name: "zero size", size: 0, overlap: 0, wantErr: true},
		{name: "negative overlap", size: 10, overlap: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newChunker(tt.size, tt.overlap)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidChunking)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, c)
		})
	}
}

func TestChunkCombinesTitleAndContent(t *testing.T) {
	c, err := newChunker(DefaultChunkSize, DefaultChunkOverlap)
	require.NoError(t, err)

	article := core.Article{
		Title:       "Fusion Milestone",
		Link:        "https://example.com/fusion",
		Description: "Researchers report net energy gain.",
		Source:      "mit",
	}

	chunks := c.chunk(article, time.Now())
	require.Len(t, chunks, 1)
	assert.Equal(t, "Title: Fusion Milestone, Content: Researchers report net energy gain.", chunks[0].Text)
}

func TestChunkEmptyArticle(t *testing.T) {
	c, err := newChunker(DefaultChunkSize, DefaultChunkOverlap)
	require.NoError(t, err)

	chunks := c.chunk(core.Article{Link: "https://example.com/empty"}, time.Now())
	assert.Empty(t, chunks)
}

func TestChunkTitleOnly(t *testing.T) {
	c, err := newChunker(DefaultChunkSize, DefaultChunkOverlap)
	require.NoError(t, err)

	chunks := c.chunk(core.Article{Title: "Headline", Link: "https://example.com/h"}, time.Now())
	require.Len(t, chunks, 1)
	assert.Equal(t, "Title: Headline", chunks[0].Text)
}

func TestChunkCoversWholeTextWithOverlap(t *testing.T) {
	c, err := newChunker(20, 5)
	require.NoError(t, err)

	article := core.Article{
		Title:       "T",
		Link:        "https://example.com/long",
		Description: strings.Repeat("abcdefghij", 12),
		Source:      "mit",
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	chunks := c.chunk(article, now)
	require.NotEmpty(t, chunks)

	// Consecutive chunks share exactly the overlap, so concatenating each
	// chunk minus its leading overlap reconstructs the original text.
	rebuilt := chunks[0].Text
	for _, chunk := range chunks[1:] {
		require.GreaterOrEqual(t, len(chunk.Text), 5)
		assert.Equal(t, rebuilt[len(rebuilt)-5:], chunk.Text[:5])
		rebuilt += chunk.Text[5:]
	}
	assert.Equal(t, combineText(article), rebuilt)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Text), 20)
		assert.Equal(t, article.Link, chunk.Link)
		assert.Equal(t, article.Source, chunk.Source)
		assert.Equal(t, now, chunk.IngestedAt)
	}
}
