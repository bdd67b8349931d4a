// Package ingest pulls news articles from configured sources and adds the
// ones the corpus has not seen into the vector store.
//
// A run fetches every source concurrently, deduplicates by article link,
// chunks and embeds the remainder, and writes the whole batch atomically.
// One broken source never stops the run; the only run-level failures are
// the corpus or the embedder going away.
package ingest
