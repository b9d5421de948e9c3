package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mentora-labs/mentora-cli/internal/core/domain"
	"github.com/mentora-labs/mentora-cli/internal/core/ports/driven"
	"github.com/mentora-labs/mentora-cli/internal/core/ports/driving"
	"github.com/mentora-labs/mentora-cli/internal/logger"
)

// Ensure DiscoveryService implements the interface.
var _ driving.DiscoveryService = (*DiscoveryService)(nil)

// defaultDiscoveryPrompt asks the model for resource suggestions as
// strict JSON. Placeholder: topic.
const defaultDiscoveryPrompt = `You help people find learning resources. For the topic below, suggest websites known for written tutorials and YouTube channels known for video tutorials.

Topic: %s

Respond with ONLY a JSON object in exactly this shape, nothing else:
{"tutorial_sites": ["domain1.com", "domain2.com"], "youtube_channels": ["Channel One", "Channel Two"]}`

// suggestionSchema is the strict contract for the model's response.
// Anything that fails validation is discarded in favour of the
// deterministic fallback list; a malformed model response must never
// crash the pipeline.
const suggestionSchema = `{
	"type": "object",
	"required": ["tutorial_sites", "youtube_channels"],
	"additionalProperties": false,
	"properties": {
		"tutorial_sites": {
			"type": "array",
			"minItems": 1,
			"maxItems": 10,
			"items": {"type": "string", "minLength": 3}
		},
		"youtube_channels": {
			"type": "array",
			"minItems": 1,
			"maxItems": 10,
			"items": {"type": "string", "minLength": 2}
		}
	}
}`

// fallbackTutorialSites and fallbackYouTubeChannels are the
// deterministic suggestions used when no LLM is available or its
// output fails validation.
var (
	fallbackTutorialSites = []string{
		"realpython.com",
		"freecodecamp.org",
		"developer.mozilla.org",
		"w3schools.com",
		"geeksforgeeks.org",
	}
	fallbackYouTubeChannels = []string{
		"freeCodeCamp.org",
		"Traversy Media",
		"The Net Ninja",
		"Corey Schafer",
	}
)

// jsonObject pulls the first balanced JSON object out of free-form
// model text. Models wrap JSON in prose and code fences often enough
// that a bare json.Unmarshal on the whole response is hopeless.
var jsonObject = regexp.MustCompile(`\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)

// suggestionPayload mirrors the validated response shape.
type suggestionPayload struct {
	TutorialSites   []string `json:"tutorial_sites"`
	YouTubeChannels []string `json:"youtube_channels"`
}

// DiscoveryService proposes learning resources for a topic, treating
// the LLM as a best-effort collaborator with schema-validated output.
type DiscoveryService struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
	schema      *gojsonschema.Schema
}

// NewDiscoveryService creates a discovery service. The llm parameter
// is optional (can be nil); without it Suggest always returns the
// fallback list.
func NewDiscoveryService(llm driven.LLMService) (*DiscoveryService, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(suggestionSchema))
	if err != nil {
		return nil, fmt.Errorf("compile suggestion schema: %w", err)
	}
	return &DiscoveryService{llm: llm, schema: schema}, nil
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *DiscoveryService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Suggest returns tutorial sites and YouTube channels for the topic.
func (s *DiscoveryService) Suggest(ctx context.Context, topic string) (*driving.ResourceSuggestions, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: empty topic", domain.ErrInvalidInput)
	}

	logger.Section("Resource Discovery")
	logger.Debug("Topic: %q", topic)

	if s.llm == nil {
		logger.Debug("No LLM configured, using fallback suggestions")
		return s.fallback(topic), nil
	}

	payload, err := s.queryModel(ctx, topic)
	if err != nil {
		logger.Warn("Model suggestion failed: %v (using fallback)", err)
		return s.fallback(topic), nil
	}

	return &driving.ResourceSuggestions{
		Topic:           topic,
		TutorialSites:   payload.TutorialSites,
		YouTubeChannels: payload.YouTubeChannels,
		FromModel:       true,
	}, nil
}

// queryModel prompts the LLM and validates its JSON against the strict
// schema. Any extraction, parse or validation failure is an error; the
// caller decides what to do with it.
func (s *DiscoveryService) queryModel(ctx context.Context, topic string) (*suggestionPayload, error) {
	template := defaultDiscoveryPrompt
	if s.promptStore != nil {
		if p, err := s.promptStore.Load(driven.PromptDiscovery); err == nil && p != "" {
			template = p
		}
	}

	raw, err := s.llm.Generate(ctx, fmt.Sprintf(template, topic), driven.GenerateOptions{
		MaxTokens:   400,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}

	blob := jsonObject.FindString(raw)
	if blob == "" {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	result, err := s.schema.Validate(gojsonschema.NewStringLoader(blob))
	if err != nil {
		return nil, fmt.Errorf("validate suggestions: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("suggestions failed schema validation: %v", result.Errors())
	}

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(blob), &payload); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	return &payload, nil
}

// fallback returns the deterministic curated list.
func (s *DiscoveryService) fallback(topic string) *driving.ResourceSuggestions {
	return &driving.ResourceSuggestions{
		Topic:           topic,
		TutorialSites:   append([]string(nil), fallbackTutorialSites...),
		YouTubeChannels: append([]string(nil), fallbackYouTubeChannels...),
		FromModel:       false,
	}
}
