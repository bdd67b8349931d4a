// Package reembed regenerates stored corpus vectors after an embedding
// model change, preserving record identity and provenance.
package reembed
