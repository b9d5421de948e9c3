package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentora-labs/mentora-cli/internal/adapters/driven/vectorstore/memory"
	"github.com/mentora-labs/mentora-cli/internal/core/domain"
)

// chunkAt stores a chunk whose cosine similarity to the {1,0,0} query
// vector equals sim (embeddings are unit vectors in the xy plane).
func chunkAt(id, title string, sim float64) domain.ContentChunk {
	y := float32(0)
	if sim < 1 {
		y = float32(math.Sqrt(1 - sim*sim))
	}
	return domain.ContentChunk{
		ID:          id,
		Content:     "Goroutines are lightweight threads managed by the Go runtime.",
		SourceURL:   "https://go.dev/" + id,
		Title:       title,
		ContentType: domain.ContentTypeWeb,
		TotalChunks: 1,
		Embedding:   []float32{float32(sim), y, 0},
	}
}

func newTestChat(t *testing.T, llm *mockLLM, sims map[string]float64) *ChatService {
	t.Helper()
	store := memory.NewStore()

	chunks := make([]domain.ContentChunk, 0, len(sims))
	for id, sim := range sims {
		chunks = append(chunks, chunkAt(id, "Doc "+id, sim))
	}
	if len(chunks) > 0 {
		require.NoError(t, store.Upsert(context.Background(), chunks))
	}

	retrieval := NewRetrievalService(store, &mockEmbeddingService{}, nil)
	if llm == nil {
		return NewChatService(retrieval, nil)
	}
	return NewChatService(retrieval, llm)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	svc := newTestChat(t, nil, nil)

	resp := svc.Ask(context.Background(), "   ", 3)

	assert.Equal(t, answerEmptyQuestion, resp.Answer)
	assert.Empty(t, resp.Sources)
	assert.Zero(t, resp.Confidence)
	assert.Equal(t, domain.ErrInvalidQuery.Error(), resp.Err)
}

func TestAsk_EmptyIndex(t *testing.T) {
	svc := newTestChat(t, nil, nil)

	resp := svc.Ask(context.Background(), "what are goroutines?", 3)

	assert.Equal(t, answerNothingFound, resp.Answer)
	assert.Empty(t, resp.Sources)
	assert.Zero(t, resp.Confidence)
	assert.Empty(t, resp.Err)
}

func TestAsk_RetrievalFailure(t *testing.T) {
	store := &failingStore{Store: memory.NewStore(), searchErr: errors.New("index offline")}
	retrieval := NewRetrievalService(store, &mockEmbeddingService{}, nil)
	svc := NewChatService(retrieval, nil)

	resp := svc.Ask(context.Background(), "what are goroutines?", 3)

	assert.Equal(t, answerErrored, resp.Answer)
	assert.Zero(t, resp.Confidence)
	assert.Contains(t, resp.Err, "index offline")
}

func TestAsk_HedgesOnWeakMatches(t *testing.T) {
	svc := newTestChat(t, nil, map[string]float64{"a_0": 0.4, "b_0": 0.3})

	resp := svc.Ask(context.Background(), "what are goroutines?", 3)

	assert.True(t, strings.HasPrefix(resp.Answer, answerHedged))
	assert.Contains(t, resp.Answer, "Based on the learning resources")
	assert.Len(t, resp.Sources, 2)
	assert.InDelta(t, 0.3, resp.Confidence, 0.0001)
}

func TestAsk_FallbackWithoutLLM(t *testing.T) {
	svc := newTestChat(t, nil, map[string]float64{"a_0": 0.9, "b_0": 0.4})

	resp := svc.Ask(context.Background(), "what are goroutines?", 3)

	// Only the strong match clears the threshold.
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "a_0", resp.Sources[0].Chunk.ID)

	assert.Contains(t, resp.Answer, "Based on the learning resources")
	assert.Contains(t, resp.Answer, "From 'Doc a_0':")
	assert.InDelta(t, 0.5, resp.Confidence, 0.0001)
	assert.Empty(t, resp.Err)
}

func TestAsk_GeneratedAnswer(t *testing.T) {
	llm := &mockLLM{response: "Answer: Goroutines are lightweight threads."}
	svc := newTestChat(t, llm, map[string]float64{"a_0": 0.9})

	resp := svc.Ask(context.Background(), "what are goroutines?", 3)

	// Leading label stripped from model output
	assert.Equal(t, "Goroutines are lightweight threads.", resp.Answer)
	require.Len(t, resp.Sources, 1)

	// Confidence clamps the mean similarity into [0.6, 0.9]
	assert.InDelta(t, 0.9, resp.Confidence, 0.01)

	// Prompt carries the context block and the question
	assert.Contains(t, llm.lastPrompt, "Source 1 - Doc a_0:")
	assert.Contains(t, llm.lastPrompt, "what are goroutines?")
}

func TestAsk_ConfidenceFloor(t *testing.T) {
	llm := &mockLLM{response: "Generated answer."}
	svc := newTestChat(t, llm, map[string]float64{"a_0": 0.51})

	resp := svc.Ask(context.Background(), "question about goroutines", 3)

	require.Len(t, resp.Sources, 1)
	assert.InDelta(t, 0.6, resp.Confidence, 0.0001)
}

func TestAsk_LLMFailureFallsBack(t *testing.T) {
	llm := &mockLLM{err: errors.New("model unloaded")}
	svc := newTestChat(t, llm, map[string]float64{"a_0": 0.9})

	resp := svc.Ask(context.Background(), "what are goroutines?", 3)

	assert.Contains(t, resp.Answer, "Based on the learning resources")
	assert.InDelta(t, 0.5, resp.Confidence, 0.0001)
	assert.Empty(t, resp.Err)
}

func TestAsk_RespectsMaxSources(t *testing.T) {
	svc := newTestChat(t, nil, map[string]float64{
		"a_0": 0.95, "b_0": 0.9, "c_0": 0.85, "d_0": 0.8,
	})

	resp := svc.Ask(context.Background(), "what are goroutines?", 2)

	assert.Len(t, resp.Sources, 2)
}

func TestAsk_DefaultMaxSources(t *testing.T) {
	svc := newTestChat(t, nil, map[string]float64{
		"a_0": 0.95, "b_0": 0.9, "c_0": 0.85, "d_0": 0.8,
	})

	resp := svc.Ask(context.Background(), "what are goroutines?", 0)

	assert.Len(t, resp.Sources, DefaultMaxSources)
}

func TestFallbackAnswer_TruncatesLongContent(t *testing.T) {
	svc := NewChatService(NewRetrievalService(memory.NewStore(), &mockEmbeddingService{}, nil), nil)

	long := strings.Repeat("x", 400)
	answer := svc.fallbackAnswer([]domain.SearchResult{{
		Chunk:      domain.ContentChunk{Title: "Doc", Content: long},
		Similarity: 0.8,
	}})

	assert.Contains(t, answer, strings.Repeat("x", 300)+"...")
	assert.NotContains(t, answer, strings.Repeat("x", 301))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.6, clamp(0.2, 0.6, 0.9))
	assert.Equal(t, 0.9, clamp(0.95, 0.6, 0.9))
	assert.Equal(t, 0.75, clamp(0.75, 0.6, 0.9))
}
