// Package lookup answers general-knowledge queries from external reference
// sources, keeping them out of the news corpus entirely.
package lookup
