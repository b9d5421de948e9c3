package cli

import (
	"context"
	"errors"

	"github.com/mentora-labs/mentora-cli/internal/core/domain"
	"github.com/mentora-labs/mentora-cli/internal/core/ports/driving"
)

// setupTestServices installs fake services and returns a cleanup func
// restoring the previous ones.
func setupTestServices() func() {
	oldRetrieval := retrievalService
	oldChat := chatService
	oldDiscovery := discoveryService

	retrievalService = &fakeRetrievalService{}
	chatService = &fakeChatService{}
	discoveryService = &fakeDiscoveryService{}

	return func() {
		retrievalService = oldRetrieval
		chatService = oldChat
		discoveryService = oldDiscovery
	}
}

func sampleChunk() domain.ContentChunk {
	return domain.ContentChunk{
		ID:          "abc123_0",
		Content:     "Goroutines are lightweight threads managed by the Go runtime.",
		SourceURL:   "https://go.dev/doc/effective_go",
		Title:       "Effective Go",
		ContentType: domain.ContentTypeWeb,
		ChunkIndex:  0,
		TotalChunks: 1,
	}
}

type fakeRetrievalService struct {
	lastLimit int
	lastType  domain.ContentType
	deleteErr error
}

var _ driving.RetrievalService = (*fakeRetrievalService)(nil)

func (f *fakeRetrievalService) Ingest(_ context.Context, content domain.ExtractedContent) (*domain.IngestOutcome, error) {
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return &domain.IngestOutcome{StoredChunks: 2, TotalChunks: 2, Status: domain.IngestStatusStored}, nil
}

func (f *fakeRetrievalService) IngestURL(_ context.Context, url string) (*domain.IngestOutcome, error) {
	if url == "https://broken.example/404" {
		return nil, domain.ErrNotExtractable
	}
	return &domain.IngestOutcome{StoredChunks: 3, SkippedChunks: 1, TotalChunks: 4, Status: domain.IngestStatusStored}, nil
}

func (f *fakeRetrievalService) Search(_ context.Context, _ string, limit int, contentType domain.ContentType) ([]domain.SearchResult, error) {
	f.lastLimit = limit
	f.lastType = contentType
	return []domain.SearchResult{{Chunk: sampleChunk(), Similarity: 0.87}}, nil
}

func (f *fakeRetrievalService) DeleteSource(_ context.Context, url string) (int, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	if url == "https://absent.example" {
		return 0, nil
	}
	return 4, nil
}

func (f *fakeRetrievalService) Stats(_ context.Context) (*domain.IndexStats, error) {
	return &domain.IndexStats{
		TotalChunks:   12,
		UniqueSources: 3,
		ContentTypeCounts: map[domain.ContentType]int{
			domain.ContentTypeWeb:     8,
			domain.ContentTypeYouTube: 4,
		},
	}, nil
}

type fakeChatService struct{}

var _ driving.ChatService = (*fakeChatService)(nil)

func (f *fakeChatService) Ask(_ context.Context, question string, _ int) domain.ChatResponse {
	return domain.ChatResponse{
		Answer:     "Goroutines are lightweight threads.",
		Sources:    []domain.SearchResult{{Chunk: sampleChunk(), Similarity: 0.87}},
		Confidence: 0.75,
		Query:      question,
	}
}

type fakeDiscoveryService struct{}

var _ driving.DiscoveryService = (*fakeDiscoveryService)(nil)

func (f *fakeDiscoveryService) Suggest(_ context.Context, topic string) (*driving.ResourceSuggestions, error) {
	return &driving.ResourceSuggestions{
		Topic:           topic,
		TutorialSites:   []string{"go.dev", "gobyexample.com"},
		YouTubeChannels: []string{"JustForFunc"},
		FromModel:       true,
	}, nil
}

type failingRetrievalService struct {
	fakeRetrievalService
}

func (f *failingRetrievalService) Search(_ context.Context, _ string, _ int, _ domain.ContentType) ([]domain.SearchResult, error) {
	return nil, errors.New("index offline")
}
