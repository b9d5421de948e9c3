// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
//
// Driven ports are the capabilities the core consumes: embedding,
// generation, vector storage, content extraction and prompt loading.
// Adapters under internal/adapters/driven implement them.
package driven
