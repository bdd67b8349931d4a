// Package query routes questions to an evidence source and synthesizes a
// grounded answer from whatever that source returned.
//
// Routing is a pure decision over the question text, made by a pluggable
// classifier. The corpus route embeds the question and ranks stored chunks
// by similarity; the general route asks an external reference source.
// Evidence too thin to cite produces a fixed answer without ever calling
// the generation model.
package query
