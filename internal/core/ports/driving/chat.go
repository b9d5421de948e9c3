package driving

import (
	"context"

	"github.com/mentora-labs/mentora-cli/internal/core/domain"
)

// ChatService answers questions about the stored corpus using
// retrieval-augmented generation.
type ChatService interface {
	// Ask retrieves relevant chunks and composes an answer. It never
	// returns an error: every failure mode resolves to a ChatResponse
	// with Err populated and a human-readable Answer explaining the
	// degraded state.
	Ask(ctx context.Context, question string, maxSources int) domain.ChatResponse
}
