package driving

import "context"

// ResourceSuggestions are curated starting points for learning a topic.
type ResourceSuggestions struct {
	// Topic echoes the requested topic.
	Topic string

	// TutorialSites are domains known for written tutorials on the topic.
	TutorialSites []string

	// YouTubeChannels are channels known for video content on the topic.
	YouTubeChannels []string

	// FromModel reports whether the suggestions came from the LLM or
	// from the deterministic fallback list.
	FromModel bool
}

// DiscoveryService proposes learning resources for a topic. When an
// LLM is available its JSON output is schema-validated; on any parse or
// validation failure the service falls back to a deterministic curated
// list rather than propagating the malformed response.
type DiscoveryService interface {
	Suggest(ctx context.Context, topic string) (*ResourceSuggestions, error)
}
