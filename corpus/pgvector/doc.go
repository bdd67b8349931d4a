// Package pgvector implements corpus.Store on PostgreSQL with the pgvector
// extension. The schema is created on first connect; similarity search uses
// the cosine distance operator (<=>) with record_id as a deterministic
// tiebreaker. Requires a reachable PostgreSQL server, so it has no unit
// tests here; the Store contract is exercised against the embedded backend.
package pgvector
