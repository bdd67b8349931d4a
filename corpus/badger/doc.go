// Package badger implements corpus.Store on an embedded BadgerDB database.
//
// Records are stored as MUS-encoded values keyed by record ID; a second key
// space indexes article links for O(links) fingerprint enumeration without
// touching record values. Search is a brute-force cosine scan, which keeps
// the backend dependency-free at query time and is fast enough for the
// corpus sizes a single news installation accumulates.
package badger
