package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mentora-labs/mentora-cli/internal/chunker"
	"github.com/mentora-labs/mentora-cli/internal/core/domain"
	"github.com/mentora-labs/mentora-cli/internal/core/ports/driven"
	"github.com/mentora-labs/mentora-cli/internal/core/ports/driving"
	"github.com/mentora-labs/mentora-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService owns the ingestion and query pipelines: chunk,
// embed and store on write; embed, search and rank on read.
//
// Concurrent ingestion of different source URLs is safe. Concurrent
// ingestion of the SAME URL is not serialised here; callers wanting
// one-ingestion-per-URL must bring their own mutual exclusion.
type RetrievalService struct {
	store      driven.VectorStore
	embeddings driven.EmbeddingService
	splitter   *chunker.Splitter
	extractors []driven.ContentExtractor
}

// NewRetrievalService creates a retrieval service. The extractors are
// tried in order by IngestURL; they are optional when callers only use
// Ingest with pre-extracted content.
func NewRetrievalService(
	store driven.VectorStore,
	embeddings driven.EmbeddingService,
	splitter *chunker.Splitter,
	extractors ...driven.ContentExtractor,
) *RetrievalService {
	if splitter == nil {
		splitter = chunker.New()
	}
	return &RetrievalService{
		store:      store,
		embeddings: embeddings,
		splitter:   splitter,
		extractors: extractors,
	}
}

// Ingest chunks, embeds and stores extracted content.
//
// Per-chunk embedding failures are skipped and counted rather than
// failing the batch; a single bad chunk never loses a whole document.
// The operation succeeds when at least one chunk was stored.
func (s *RetrievalService) Ingest(ctx context.Context, content domain.ExtractedContent) (*domain.IngestOutcome, error) {
	if err := content.Validate(); err != nil {
		return &domain.IngestOutcome{Status: domain.IngestStatusRejected}, err
	}
	if s.embeddings == nil {
		return &domain.IngestOutcome{Status: domain.IngestStatusRejected}, domain.ErrEmbeddingUnavailable
	}

	text := strings.TrimSpace(content.Text)
	if minLen := content.ContentType.MinContentLength(); len(text) < minLen {
		logger.Debug("Rejecting %s: %d chars below %d minimum", content.URL, len(text), minLen)
		return &domain.IngestOutcome{Status: domain.IngestStatusRejected},
			fmt.Errorf("%w: %d chars, need %d", domain.ErrContentTooShort, len(text), minLen)
	}

	logger.Section("Ingestion")
	logger.Debug("URL: %s, type: %s, %d chars", content.URL, content.ContentType, len(text))

	pieces := s.splitter.Split(text)
	logger.Debug("Chunker produced %d chunks", len(pieces))

	chunks := s.buildChunks(ctx, content, pieces)
	outcome := &domain.IngestOutcome{
		TotalChunks:   len(pieces),
		StoredChunks:  len(chunks),
		SkippedChunks: len(pieces) - len(chunks),
	}

	if len(chunks) == 0 {
		outcome.StoredChunks = 0
		outcome.Status = domain.IngestStatusFailed
		return outcome, fmt.Errorf("%w: 0 of %d chunks embedded", domain.ErrEmbeddingFailed, len(pieces))
	}

	if err := s.store.Upsert(ctx, chunks); err != nil {
		outcome.StoredChunks = 0
		outcome.SkippedChunks = len(pieces)
		outcome.Status = domain.IngestStatusFailed
		return outcome, fmt.Errorf("upsert chunks: %w", err)
	}

	outcome.Status = domain.IngestStatusStored
	logger.Info("Stored %d/%d chunks from %s", outcome.StoredChunks, outcome.TotalChunks, content.URL)
	return outcome, nil
}

// buildChunks embeds each piece and assembles chunk records. Pieces
// whose embedding fails are dropped; the survivors keep their original
// chunk indices, so a skipped piece leaves a gap in the stored index
// sequence.
func (s *RetrievalService) buildChunks(
	ctx context.Context, content domain.ExtractedContent, pieces []string,
) []domain.ContentChunk {
	chunks := make([]domain.ContentChunk, 0, len(pieces))
	now := timeNow()

	for i, piece := range pieces {
		piece = truncateRunes(piece, domain.MaxChunkContentLength)

		embedding, err := s.embeddings.Embed(ctx, piece)
		if err != nil {
			logger.Warn("Embedding failed for chunk %d of %s: %v (skipping)", i, content.URL, err)
			continue
		}

		chunks = append(chunks, domain.ContentChunk{
			ID:          domain.ChunkID(content.URL, i, piece),
			Content:     piece,
			SourceURL:   content.URL,
			Title:       content.Title,
			ContentType: content.ContentType,
			ChunkIndex:  i,
			TotalChunks: len(pieces),
			Timestamp:   now,
			Metadata:    content.Metadata,
			Embedding:   embedding,
		})
	}

	return chunks
}

// truncateRunes caps s at max bytes without splitting a UTF-8 sequence.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// IngestURL extracts content from a URL and ingests it.
func (s *RetrievalService) IngestURL(ctx context.Context, url string) (*domain.IngestOutcome, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return &domain.IngestOutcome{Status: domain.IngestStatusRejected},
			fmt.Errorf("%w: empty url", domain.ErrInvalidInput)
	}

	for _, ex := range s.extractors {
		if !ex.CanExtract(url) {
			continue
		}
		content, err := ex.Extract(ctx, url)
		if err != nil {
			return &domain.IngestOutcome{Status: domain.IngestStatusRejected},
				fmt.Errorf("extract %s: %w", url, err)
		}
		return s.Ingest(ctx, *content)
	}

	return &domain.IngestOutcome{Status: domain.IngestStatusRejected},
		fmt.Errorf("%w: no extractor for %s", domain.ErrNotExtractable, url)
}

// searchOverfetch is the candidate multiplier applied before the store
// query. Over-fetching lets callers filter by relevance without a
// second round trip.
const searchOverfetch = 2

// DefaultSearchLimit is used when callers pass a non-positive limit.
const DefaultSearchLimit = 5

// Search embeds the query and returns up to limit candidates sorted by
// descending similarity. Low-similarity hits are returned as-is so
// callers can apply their own thresholds.
func (s *RetrievalService) Search(
	ctx context.Context, query string, limit int, contentType domain.ContentType,
) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidQuery
	}
	if s.embeddings == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	logger.Section("Search Execution")
	logger.Debug("Query: %q, limit: %d, type filter: %q", query, limit, contentType)

	embedding, err := s.embeddings.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", domain.ErrEmbeddingFailed, err)
	}

	var filter *driven.SearchFilter
	if contentType != "" {
		if !contentType.Valid() {
			return nil, fmt.Errorf("%w: unknown content type %q", domain.ErrInvalidInput, contentType)
		}
		filter = &driven.SearchFilter{ContentType: contentType}
	}

	results, err := s.store.Search(ctx, embedding, limit*searchOverfetch, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	logger.Debug("Raw results: %d candidates", len(results))

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// SearchCandidates is Search without the final truncation: it returns
// the full over-fetched candidate list for callers that filter by
// relevance themselves (the answer composer).
func (s *RetrievalService) SearchCandidates(
	ctx context.Context, query string, limit int,
) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidQuery
	}
	if s.embeddings == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	embedding, err := s.embeddings.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", domain.ErrEmbeddingFailed, err)
	}

	return s.store.Search(ctx, embedding, limit*searchOverfetch, nil)
}

// DeleteSource removes all chunks for the URL. Idempotent.
func (s *RetrievalService) DeleteSource(ctx context.Context, url string) (int, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return 0, fmt.Errorf("%w: empty url", domain.ErrInvalidInput)
	}

	removed, err := s.store.DeleteBySourceURL(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("delete source: %w", err)
	}

	logger.Info("Deleted %d chunks for %s", removed, url)
	return removed, nil
}

// Stats describes the stored corpus.
func (s *RetrievalService) Stats(ctx context.Context) (*domain.IndexStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return stats, nil
}
