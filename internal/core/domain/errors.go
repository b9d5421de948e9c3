package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrContentTooShort indicates extracted text is below the minimum
	// usable length for its content type. Nothing is stored.
	ErrContentTooShort = errors.New("content too short")

	// ErrInvalidQuery indicates an empty or whitespace-only question.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrEmbeddingFailed indicates the embedding service could not
	// produce a vector. Per-chunk failures are counted, not raised, so
	// one bad chunk never fails a whole document.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrIndexUnavailable indicates the vector store cannot be reached.
	// Fatal to the current operation.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrNotExtractable indicates a URL yielded no usable content.
	ErrNotExtractable = errors.New("content not extractable")

	// ErrLLMUnavailable indicates no generation service is configured.
	// Answer composition degrades to the deterministic template.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and semantic search are disabled.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
