package badger

import (
	"fmt"

	"github.com/pressline/newsanalyst/core"
)

// Key prefixes for different data types
const (
	recordPrefix = "newrec"
	linkPrefix   = "newlnk"
)

// makeRecordKey generates a key for a corpus record by ID.
func makeRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", recordPrefix, id))
}

// makeLinkKey generates a key for the fingerprint index.
// One key exists per distinct article link regardless of chunk count.
func makeLinkKey(link string) []byte {
	return []byte(linkPrefix + ":" + link)
}

// linkFromKey recovers the article link from a fingerprint index key.
func linkFromKey(key []byte) string {
	return string(key[len(linkPrefix)+1:])
}
