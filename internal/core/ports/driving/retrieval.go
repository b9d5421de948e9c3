package driving

import (
	"context"

	"github.com/mentora-labs/mentora-cli/internal/core/domain"
)

// RetrievalService owns the chunk-embed-store pipeline on write and the
// embed-search pipeline on read.
type RetrievalService interface {
	// Ingest chunks, embeds and stores extracted content. Individual
	// chunk embedding failures are skipped and counted; the operation
	// succeeds if at least one chunk was stored.
	Ingest(ctx context.Context, content domain.ExtractedContent) (*domain.IngestOutcome, error)

	// IngestURL extracts content from a URL and ingests it.
	IngestURL(ctx context.Context, url string) (*domain.IngestOutcome, error)

	// Search embeds the query and returns candidates sorted by
	// descending similarity, truncated to limit. Low-similarity hits
	// are NOT discarded here; callers apply their own thresholds.
	Search(ctx context.Context, query string, limit int, contentType domain.ContentType) ([]domain.SearchResult, error)

	// DeleteSource removes all chunks for the URL. Returns the number
	// of chunks removed; zero when the URL was absent.
	DeleteSource(ctx context.Context, url string) (int, error)

	// Stats describes the stored corpus.
	Stats(ctx context.Context) (*domain.IndexStats, error)
}
