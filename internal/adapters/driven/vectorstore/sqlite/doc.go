// Package sqlite provides a SQLite-backed implementation of the VectorStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Embeddings are stored as little-endian
// float32 blobs alongside the chunk metadata; similarity queries run as a
// brute-force cosine scan over the (optionally filtered) candidate rows. That is
// exact rather than approximate search, which is the right trade below a few
// hundred thousand chunks.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.mentora/data/chunks.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode; concurrent upserts of different sources do not interfere.
package sqlite
