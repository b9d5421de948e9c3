// Package memory provides an in-memory vector store for tests and
// ephemeral runs. Nothing survives process exit.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/mentora-labs/mentora-cli/internal/core/domain"
	"github.com/mentora-labs/mentora-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store holds chunk records in a mutex-guarded map and answers
// similarity queries with a brute-force cosine scan. Fine for the
// corpus sizes a single user ingests; swap in the SQLite store for
// anything persistent.
type Store struct {
	mu     sync.RWMutex
	chunks map[string]domain.ContentChunk
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		chunks: make(map[string]domain.ContentChunk),
	}
}

// Upsert inserts or replaces chunk records by ID.
func (s *Store) Upsert(_ context.Context, chunks []domain.ContentChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range chunks {
		s.chunks[c.ID] = c
	}
	return nil
}

// Search returns up to k records ordered by descending cosine
// similarity. An empty store yields an empty slice, never an error.
func (s *Store) Search(
	_ context.Context, query []float32, k int, filter *driven.SearchFilter,
) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.SearchResult, 0, len(s.chunks))
	for _, c := range s.chunks {
		if filter != nil && filter.ContentType != "" && c.ContentType != filter.ContentType {
			continue
		}
		results = append(results, domain.SearchResult{
			Chunk:      c,
			Similarity: cosineSimilarity(query, c.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// DeleteBySourceURL removes all chunks for the URL. Idempotent.
func (s *Store) DeleteBySourceURL(_ context.Context, url string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, c := range s.chunks {
		if c.SourceURL == url {
			delete(s.chunks, id)
			removed++
		}
	}
	return removed, nil
}

// Stats describes the stored corpus.
func (s *Store) Stats(_ context.Context) (*domain.IndexStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sources := make(map[string]struct{})
	counts := make(map[domain.ContentType]int)
	for _, c := range s.chunks {
		sources[c.SourceURL] = struct{}{}
		counts[c.ContentType]++
	}

	return &domain.IndexStats{
		TotalChunks:       len(s.chunks),
		UniqueSources:     len(sources),
		ContentTypeCounts: counts,
	}, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// cosineSimilarity computes the normalised dot product of two vectors.
// Mismatched or zero-length vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
