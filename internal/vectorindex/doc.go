// Package vectorindex mirrors completed material embeddings into Qdrant so
// that similarity search does not scan the relational store.
//
// The index is a read model: PostgreSQL stays the source of truth and index
// writes are best effort. The package degrades to a no-op when disabled,
// which keeps the pipeline wiring unconditional.
package vectorindex
