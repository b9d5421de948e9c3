package driven

import (
	"context"

	"github.com/mentora-labs/mentora-cli/internal/core/domain"
)

// VectorStore persists chunk records with their embeddings and answers
// approximate nearest-neighbour queries.
//
// Implementations must surface connectivity failures as
// domain.ErrIndexUnavailable (wrapped), and must return an empty slice,
// not an error, when searching an empty store.
type VectorStore interface {
	// Upsert inserts or replaces chunk records by ID. IDs are content
	// hashes, so re-upserting identical content is a no-op; changed
	// content at the same position arrives under a new ID and the old
	// row stays behind until deleted by source URL.
	Upsert(ctx context.Context, chunks []domain.ContentChunk) error

	// Search returns up to k records ordered by descending cosine
	// similarity to the query vector. Tie order between equal scores is
	// implementation defined. An optional filter restricts candidates.
	Search(ctx context.Context, query []float32, k int, filter *SearchFilter) ([]domain.SearchResult, error)

	// DeleteBySourceURL removes all chunks for the URL. Idempotent:
	// deleting an absent URL is a no-op. Returns the number of rows
	// removed.
	DeleteBySourceURL(ctx context.Context, url string) (int, error)

	// Stats describes the stored corpus.
	Stats(ctx context.Context) (*domain.IndexStats, error)

	// Close releases resources.
	Close() error
}

// SearchFilter restricts search candidates by metadata equality.
type SearchFilter struct {
	// ContentType, when non-empty, keeps only chunks of that type.
	ContentType domain.ContentType
}
