package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mentora-labs/mentora-cli/internal/adapters/driven/vectorstore/memory"
	"github.com/mentora-labs/mentora-cli/internal/core/domain"
	"github.com/mentora-labs/mentora-cli/internal/core/ports/driven"
)

// mockEmbeddingService returns fixed vectors by exact text, with a
// default vector for anything unknown. Substring matches on failOn
// simulate per-chunk embedding failures.
type mockEmbeddingService struct {
	vectors map[string][]float32
	failOn  string
}

var _ driven.EmbeddingService = (*mockEmbeddingService)(nil)

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.failOn != "" && strings.Contains(text, m.failOn) {
		return nil, fmt.Errorf("embedding backend rejected input")
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int               { return 3 }
func (m *mockEmbeddingService) ModelName() string             { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error  { return nil }
func (m *mockEmbeddingService) Close() error                  { return nil }

// mockLLM returns a canned response or error.
type mockLLM struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

var _ driven.LLMService = (*mockLLM)(nil)

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockExtractor serves fixed content for URLs it recognises.
type mockExtractor struct {
	prefix  string
	content *domain.ExtractedContent
	err     error
}

var _ driven.ContentExtractor = (*mockExtractor)(nil)

func (m *mockExtractor) CanExtract(url string) bool {
	return strings.HasPrefix(url, m.prefix)
}

func (m *mockExtractor) Extract(_ context.Context, _ string) (*domain.ExtractedContent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.content, nil
}

// failingStore wraps the memory store and fails selected operations.
type failingStore struct {
	*memory.Store
	searchErr error
	upsertErr error
}

func (f *failingStore) Search(ctx context.Context, query []float32, k int, filter *driven.SearchFilter) ([]domain.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.Store.Search(ctx, query, k, filter)
}

func (f *failingStore) Upsert(ctx context.Context, chunks []domain.ContentChunk) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	return f.Store.Upsert(ctx, chunks)
}

// webContent builds valid extracted web content of sufficient length.
func webContent(url, title string) domain.ExtractedContent {
	return domain.ExtractedContent{
		URL:         url,
		Title:       title,
		Text:        strings.Repeat("Goroutines are lightweight threads managed by the Go runtime. ", 4),
		ContentType: domain.ContentTypeWeb,
	}
}
