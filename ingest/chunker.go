package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/pressline/newsanalyst/core"
)

// Default chunking parameters, sized for short news descriptions.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 10
)

// chunker splits article text into overlapping windows. Overlap must be
// strictly smaller than size so every step makes progress.
type chunker struct {
	size    int
	overlap int
}

func newChunker(size, overlap int) (*chunker, error) {
	if size < 1 || overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidChunking, size, overlap)
	}
	return &chunker{size: size, overlap: overlap}, nil
}

// chunk produces the chunks for one article. Title and description are
// combined into a single text so a title-only match still retrieves the
// article. Every chunk carries the article's full provenance.
func (c *chunker) chunk(article core.Article, now time.Time) []core.Chunk {
	combined := combineText(article)
	if combined == "" {
		return nil
	}

	var chunks []core.Chunk
	step := c.size - c.overlap
	runes := []rune(combined)

	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, core.Chunk{
			Text:       string(runes[start:end]),
			Title:      article.Title,
			Link:       article.Link,
			PubDate:    article.PubDate,
			Source:     article.Source,
			IngestedAt: now,
		})

		if end == len(runes) {
			break
		}
	}

	return chunks
}

func combineText(article core.Article) string {
	title := strings.TrimSpace(article.Title)
	description := strings.TrimSpace(article.Description)

	switch {
	case title == "" && description == "":
		return ""
	case title == "":
		return "Content: " + description
	case description == "":
		return "Title: " + title
	default:
		return "Title: " + title + ", Content: " + description
	}
}
