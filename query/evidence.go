package query

import (
	"strings"

	"github.com/pressline/newsanalyst/core"
)

// evidenceSeparator keeps adjacent evidence blocks visually distinct so the
// synthesis model cannot merge two sources into one.
const evidenceSeparator = "\n---\n"

// DefaultMinEvidenceLength is the shortest evidence text, in bytes, worth
// sending to the synthesis model.
const DefaultMinEvidenceLength = 40

// formatEvidence renders retrieved hits with explicit provenance fields so
// the synthesis stage can cite them.
func formatEvidence(hits []core.SearchHit) string {
	blocks := make([]string, 0, len(hits))
	for _, hit := range hits {
		if hit.Record == nil {
			continue
		}
		meta := hit.Record.Metadata
		var b strings.Builder
		b.WriteString("Source: " + meta[core.MetaSource] + "\n")
		b.WriteString("Title: " + meta[core.MetaTitle] + "\n")
		b.WriteString("Date: " + meta[core.MetaPubDate] + "\n")
		b.WriteString("Link: " + meta[core.MetaLink] + "\n")
		b.WriteString("Content: " + hit.Record.Text)
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, evidenceSeparator)
}
