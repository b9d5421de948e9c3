package domain

// SearchResult pairs a stored chunk with its similarity to a query.
// Results are ephemeral and never persisted.
type SearchResult struct {
	// Chunk is the matched chunk.
	Chunk ContentChunk

	// Similarity is the cosine similarity in [-1, 1]. Normalised text
	// embeddings land in [0, 1] in practice.
	Similarity float64
}

// IndexStats describes the contents of the vector store.
type IndexStats struct {
	// TotalChunks is the number of stored chunk records.
	TotalChunks int

	// UniqueSources is the number of distinct source URLs.
	UniqueSources int

	// ContentTypeCounts maps each content type to its chunk count.
	ContentTypeCounts map[ContentType]int
}
