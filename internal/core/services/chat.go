package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mentora-labs/mentora-cli/internal/core/domain"
	"github.com/mentora-labs/mentora-cli/internal/core/ports/driven"
	"github.com/mentora-labs/mentora-cli/internal/core/ports/driving"
	"github.com/mentora-labs/mentora-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// RelevanceThreshold separates confident sources from weakly related
// ones. Candidates at or below it only appear behind the hedging
// disclaimer.
const RelevanceThreshold = 0.5

// DefaultMaxSources is used when callers pass a non-positive source cap.
const DefaultMaxSources = 3

// Confidence levels for the composer's degraded states.
const (
	confidenceNone     = 0.0
	confidenceHedged   = 0.3
	confidenceFallback = 0.5
	confidenceFloor    = 0.6
	confidenceCeiling  = 0.9
)

// Per-source content caps for the two answer paths.
const (
	llmContextSourceLimit = 1000
	fallbackSourceLimit   = 300
)

// Fixed answers for the degraded states.
const (
	answerEmptyQuestion = "Please provide a valid question."

	answerNothingFound = "I couldn't find any relevant information in the knowledge base to answer " +
		"your question. Try asking about topics that are covered in the stored learning resources."

	answerHedged = "I found some content that might be related to your question, but it doesn't " +
		"seem directly relevant. Here's what I found:"

	answerErrored = "Sorry, I encountered an error while processing your question. Please try again."
)

// defaultAnswerPrompt grounds the generated answer in the retrieved
// context. Placeholders: context block, question.
const defaultAnswerPrompt = `You are a helpful AI assistant that answers questions based on learning resources. Use the following context to answer the user's question accurately and helpfully.

Context from Learning Resources:
%s

Question: %s

Instructions:
- Provide a clear, concise answer based primarily on the given context
- If referencing specific information, mention which source it comes from
- If the context doesn't fully answer the question, be honest about limitations
- Keep the answer focused and practical
- Use a helpful, educational tone
- Format your response in a readable way with proper paragraphs

Answer:`

// ChatService composes answers from retrieved chunks. Generation is
// delegated to an optional LLMService; without one, answers fall back
// to a deterministic template built from the source excerpts.
type ChatService struct {
	retrieval   *RetrievalService
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewChatService creates a chat service. The llm parameter is optional
// (can be nil).
func NewChatService(retrieval *RetrievalService, llm driven.LLMService) *ChatService {
	return &ChatService{
		retrieval: retrieval,
		llm:       llm,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *ChatService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ask retrieves relevant chunks and composes an answer.
//
// Ask never returns an error. Empty questions, empty indexes, weak
// matches and infrastructure failures all resolve to a well-formed
// ChatResponse; failures populate Err and keep Confidence at zero.
func (s *ChatService) Ask(ctx context.Context, question string, maxSources int) domain.ChatResponse {
	original := question
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.ChatResponse{
			Answer:     answerEmptyQuestion,
			Sources:    []domain.SearchResult{},
			Confidence: confidenceNone,
			Query:      original,
			Err:        domain.ErrInvalidQuery.Error(),
		}
	}
	if maxSources <= 0 {
		maxSources = DefaultMaxSources
	}

	logger.Section("Question Answering")
	logger.Debug("Question: %q, max sources: %d", question, maxSources)

	candidates, err := s.retrieval.SearchCandidates(ctx, question, maxSources)
	if err != nil {
		logger.Warn("Retrieval failed: %v", err)
		return domain.ChatResponse{
			Answer:     answerErrored,
			Sources:    []domain.SearchResult{},
			Confidence: confidenceNone,
			Query:      question,
			Err:        err.Error(),
		}
	}

	if len(candidates) == 0 {
		logger.Debug("No candidates retrieved")
		return domain.ChatResponse{
			Answer:     answerNothingFound,
			Sources:    []domain.SearchResult{},
			Confidence: confidenceNone,
			Query:      question,
		}
	}

	relevant := make([]domain.SearchResult, 0, maxSources)
	for _, c := range candidates {
		if c.Similarity > RelevanceThreshold {
			relevant = append(relevant, c)
		}
		if len(relevant) >= maxSources {
			break
		}
	}

	if len(relevant) == 0 {
		// Nothing cleared the threshold; present the closest matches
		// behind a disclaimer instead of pretending confidence.
		weak := candidates
		if len(weak) > maxSources {
			weak = weak[:maxSources]
		}
		logger.Debug("No candidate above %.1f, hedging with %d sources", RelevanceThreshold, len(weak))
		return domain.ChatResponse{
			Answer:     answerHedged + "\n\n" + s.fallbackAnswer(weak),
			Sources:    weak,
			Confidence: confidenceHedged,
			Query:      question,
		}
	}

	answer, generated := s.composeAnswer(ctx, question, relevant)

	confidence := confidenceFallback
	if generated {
		confidence = clamp(meanSimilarity(relevant), confidenceFloor, confidenceCeiling)
	}

	return domain.ChatResponse{
		Answer:     answer,
		Sources:    relevant,
		Confidence: confidence,
		Query:      question,
	}
}

// composeAnswer tries the LLM path and reports whether it succeeded.
// Any generation failure drops to the deterministic template.
func (s *ChatService) composeAnswer(
	ctx context.Context, question string, sources []domain.SearchResult,
) (string, bool) {
	if s.llm == nil {
		return s.fallbackAnswer(sources), false
	}

	answer, err := s.generateAnswer(ctx, question, sources)
	if err != nil {
		logger.Warn("LLM answer generation failed: %v (using fallback)", err)
		return s.fallbackAnswer(sources), false
	}
	return answer, true
}

// generateAnswer builds the context block and asks the LLM for a
// grounded, source-attributing answer.
func (s *ChatService) generateAnswer(
	ctx context.Context, question string, sources []domain.SearchResult,
) (string, error) {
	var b strings.Builder
	for i, src := range sources {
		content := src.Chunk.Content
		if len(content) > llmContextSourceLimit {
			content = truncateRunes(content, llmContextSourceLimit) + "..."
		}
		fmt.Fprintf(&b, "Source %d - %s:\n%s\n\n", i+1, src.Chunk.Title, content)
	}

	template := s.loadPrompt(driven.PromptAnswer, defaultAnswerPrompt)
	prompt := fmt.Sprintf(template, b.String(), question)

	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	answer := strings.TrimSpace(raw)
	// Some models echo the prompt's trailing label.
	answer = strings.TrimSpace(strings.TrimPrefix(answer, "Answer:"))
	if answer == "" {
		return "", fmt.Errorf("generate answer: empty response")
	}
	return answer, nil
}

// fallbackAnswer is the deterministic answer path: a header, one
// excerpt per source, and a pointer back to the originals. It works
// without any live LLM and is fully testable.
func (s *ChatService) fallbackAnswer(sources []domain.SearchResult) string {
	var b strings.Builder
	b.WriteString("Based on the learning resources in my knowledge base:\n\n")

	for i, src := range sources {
		content := src.Chunk.Content
		if len(content) > fallbackSourceLimit {
			content = truncateRunes(content, fallbackSourceLimit) + "..."
		}
		fmt.Fprintf(&b, "**%d. From '%s':**\n%s\n\n", i+1, src.Chunk.Title, content)
	}

	b.WriteString("For more detailed information, please refer to the original sources.")
	return b.String()
}

// loadPrompt fetches a template from the prompt store, falling back to
// the embedded default.
func (s *ChatService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// meanSimilarity averages the similarity of the kept sources.
func meanSimilarity(sources []domain.SearchResult) float64 {
	if len(sources) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sources {
		sum += s.Similarity
	}
	return sum / float64(len(sources))
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
