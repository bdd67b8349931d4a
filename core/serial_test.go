package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMUSRoundTrip(t *testing.T) {
	record := Record{
		Id:   RecordID("https://example.com/launch", 0),
		Text: "Title: Launch, Content: A rocket launched today.",
		Metadata: map[string]string{
			MetaTitle:   "Launch",
			MetaLink:    "https://example.com/launch",
			MetaPubDate: "2026-08-20T12:00:00Z",
			MetaSource:  "example",
		},
		Vector: []float32{0.25, -0.5, 0.125},
	}

	buf := make([]byte, RecordMUS.Size(record))
	n := RecordMUS.Marshal(record, buf)
	require.Equal(t, len(buf), n)

	decoded, n, err := RecordMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, record, decoded)
}

func TestRecordMUSDeterministic(t *testing.T) {
	// Map iteration order must not leak into the encoding; badger values
	// for the same record have to be byte-identical.
	record := Record{
		Id:   7,
		Text: "chunk",
		Metadata: map[string]string{
			"b": "2", "a": "1", "c": "3", "d": "4",
		},
	}

	first := make([]byte, RecordMUS.Size(record))
	RecordMUS.Marshal(record, first)

	for i := 0; i < 10; i++ {
		buf := make([]byte, RecordMUS.Size(record))
		RecordMUS.Marshal(record, buf)
		assert.Equal(t, first, buf)
	}
}
