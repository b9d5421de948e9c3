// Package domain defines the core business entities for Mentora.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ExtractedContent: Normalised text extracted from a URL
//   - ContentChunk: The unit of embedding and retrieval
//   - SearchResult: A chunk paired with its similarity score
//   - ChatResponse: An answer composed from retrieved chunks
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
