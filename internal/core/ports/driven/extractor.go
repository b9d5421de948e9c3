package driven

import (
	"context"

	"github.com/mentora-labs/mentora-cli/internal/core/domain"
)

// ContentExtractor fetches a URL and produces normalised plain text
// with title and content-type metadata. Extraction failures and
// too-thin pages surface as domain.ErrNotExtractable.
type ContentExtractor interface {
	// CanExtract reports whether this extractor handles the URL.
	// Extractors are tried in registration order; the first match wins.
	CanExtract(url string) bool

	// Extract fetches and normalises the URL's content.
	Extract(ctx context.Context, url string) (*domain.ExtractedContent, error)
}
