package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentora-labs/mentora-cli/internal/core/domain"
)

func TestSuggest_EmptyTopic(t *testing.T) {
	svc, err := NewDiscoveryService(nil)
	require.NoError(t, err)

	_, err = svc.Suggest(context.Background(), "  ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSuggest_NoLLMUsesFallback(t *testing.T) {
	svc, err := NewDiscoveryService(nil)
	require.NoError(t, err)

	suggestions, err := svc.Suggest(context.Background(), "golang")
	require.NoError(t, err)

	assert.Equal(t, "golang", suggestions.Topic)
	assert.False(t, suggestions.FromModel)
	assert.Equal(t, fallbackTutorialSites, suggestions.TutorialSites)
	assert.Equal(t, fallbackYouTubeChannels, suggestions.YouTubeChannels)
}

func TestSuggest_ValidModelResponse(t *testing.T) {
	llm := &mockLLM{response: `Here you go:
{"tutorial_sites": ["go.dev", "gobyexample.com"], "youtube_channels": ["JustForFunc"]}
Happy learning!`}

	svc, err := NewDiscoveryService(llm)
	require.NoError(t, err)

	suggestions, err := svc.Suggest(context.Background(), "golang")
	require.NoError(t, err)

	assert.True(t, suggestions.FromModel)
	assert.Equal(t, []string{"go.dev", "gobyexample.com"}, suggestions.TutorialSites)
	assert.Equal(t, []string{"JustForFunc"}, suggestions.YouTubeChannels)
	assert.Contains(t, llm.lastPrompt, "golang")
}

func TestSuggest_NoJSONFallsBack(t *testing.T) {
	llm := &mockLLM{response: "I cannot produce JSON today."}

	svc, err := NewDiscoveryService(llm)
	require.NoError(t, err)

	suggestions, err := svc.Suggest(context.Background(), "rust")
	require.NoError(t, err)

	assert.False(t, suggestions.FromModel)
	assert.Equal(t, fallbackTutorialSites, suggestions.TutorialSites)
}

func TestSuggest_SchemaViolationFallsBack(t *testing.T) {
	// Empty arrays violate minItems
	llm := &mockLLM{response: `{"tutorial_sites": [], "youtube_channels": []}`}

	svc, err := NewDiscoveryService(llm)
	require.NoError(t, err)

	suggestions, err := svc.Suggest(context.Background(), "rust")
	require.NoError(t, err)

	assert.False(t, suggestions.FromModel)
}

func TestSuggest_ExtraFieldsFallBack(t *testing.T) {
	llm := &mockLLM{response: `{"tutorial_sites": ["go.dev"], "youtube_channels": ["JustForFunc"], "books": ["The Go Programming Language"]}`}

	svc, err := NewDiscoveryService(llm)
	require.NoError(t, err)

	suggestions, err := svc.Suggest(context.Background(), "golang")
	require.NoError(t, err)

	assert.False(t, suggestions.FromModel)
}

func TestSuggest_LLMErrorFallsBack(t *testing.T) {
	llm := &mockLLM{err: errors.New("model unloaded")}

	svc, err := NewDiscoveryService(llm)
	require.NoError(t, err)

	suggestions, err := svc.Suggest(context.Background(), "python")
	require.NoError(t, err)

	assert.False(t, suggestions.FromModel)
}
