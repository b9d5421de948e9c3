package domain

// ChatResponse is the structured result of asking a question about the
// stored corpus. Ask never fails with an error; degraded states are
// expressed through Confidence and Err.
type ChatResponse struct {
	// Answer is the user-facing answer text.
	Answer string

	// Sources are the chunks the answer was grounded on, best first.
	Sources []SearchResult

	// Confidence is a coarse quality signal in [0, 1]:
	//   0.0  nothing found or composition failed
	//   0.3  only weakly related sources were available
	//   0.5  confident sources, deterministic (non-LLM) answer
	//   0.6-0.9  confident sources with a generated answer
	Confidence float64

	// Query echoes the original question.
	Query string

	// Err carries the underlying failure message when composition
	// degraded because of an error. Empty on success.
	Err string
}
