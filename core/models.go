package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored corpus records.
// It is generated by content-based hashing of the article fingerprint.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// RecordID generates the ID for the ordinal-th chunk derived from the
// article with the given link. The link is the dedup fingerprint, so the
// pair (link, ordinal) identifies a record across re-ingestions.
func RecordID(link string, ordinal int) ID {
	return IDFromContent(link + "#" + strconv.Itoa(ordinal))
}

// Article is a single piece of fetched news content. The Link field is the
// unique fingerprint used for deduplication; an article is never mutated
// after it has been fetched.
type Article struct {
	Title       string
	Link        string
	Description string
	PubDate     time.Time
	Source      string
}

// Chunk is a bounded-size slice of an article's combined title+body text.
// Adjacent chunks overlap slightly so that no context is lost across
// chunk boundaries. A chunk is immutable once created.
type Chunk struct {
	Text       string
	Title      string
	Link       string
	PubDate    time.Time
	Source     string
	IngestedAt time.Time
}

// Metadata keys carried on every stored record. Together they provide
// enough provenance to cite the record back to its article.
const (
	MetaTitle      = "title"
	MetaLink       = "link"
	MetaPubDate    = "pub_date"
	MetaSource     = "source"
	MetaIngestedAt = "ingested_at"
)

// Record is the persisted (text, vector, metadata) triple held by a corpus
// store. Metadata always carries the provenance keys above.
type Record struct {
	Id       ID
	Text     string
	Metadata map[string]string
	Vector   []float32
}

// Link returns the article fingerprint this record derives from.
func (r *Record) Link() string {
	return r.Metadata[MetaLink]
}

// NewRecord builds the stored record for the ordinal-th chunk of an article.
func NewRecord(chunk Chunk, ordinal int, vector []float32) Record {
	return Record{
		Id:   RecordID(chunk.Link, ordinal),
		Text: chunk.Text,
		Metadata: map[string]string{
			MetaTitle:      chunk.Title,
			MetaLink:       chunk.Link,
			MetaPubDate:    chunk.PubDate.UTC().Format(time.RFC3339),
			MetaSource:     chunk.Source,
			MetaIngestedAt: chunk.IngestedAt.UTC().Format(time.RFC3339),
		},
		Vector: vector,
	}
}

// SearchHit is a corpus record matched by similarity search.
type SearchHit struct {
	Record *Record
	Score  float32
}
