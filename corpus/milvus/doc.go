// Package milvus provides a corpus store on a Milvus collection.
//
// Records are stored column-oriented with the similarity index kept by
// Milvus itself, so Search delegates ranking to the server instead of
// scanning locally. Like the pgvector backend it has no unit tests of
// its own; the store contract is exercised against the embedded backend.
package milvus
