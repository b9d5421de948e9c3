package domain

import (
	"crypto/md5" //nolint:gosec // Chunk IDs are identity keys, not security material.
	"fmt"
	"strings"
	"time"
)

// ContentType identifies where a piece of content came from.
type ContentType string

const (
	// ContentTypeWeb is text extracted from a web page.
	ContentTypeWeb ContentType = "web"

	// ContentTypeYouTube is text extracted from a video transcript.
	ContentTypeYouTube ContentType = "youtube"

	// ContentTypeManual is text supplied directly by the caller.
	ContentTypeManual ContentType = "manual"
)

// Valid reports whether the content type is one of the known values.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeWeb, ContentTypeYouTube, ContentTypeManual:
		return true
	}
	return false
}

// MinContentLength returns the minimum usable text length for this
// content type. Transcripts are noisier and shorter than prose, so
// they get a lower floor.
func (t ContentType) MinContentLength() int {
	if t == ContentTypeYouTube {
		return 50
	}
	return 100
}

// ExtractedContent is the validated boundary type produced by a
// ContentExtractor and consumed by ingestion. It replaces any loosely
// shaped payloads at the extractor boundary.
type ExtractedContent struct {
	// Title is the human-readable title of the source.
	Title string

	// Text is the normalised plain text.
	Text string

	// URL is the original location the content was extracted from.
	URL string

	// ContentType records the extraction path (web, youtube, manual).
	ContentType ContentType

	// Metadata contains arbitrary key-value pairs (domain, duration, language).
	Metadata map[string]any
}

// Validate checks the boundary invariants on extracted content.
func (c *ExtractedContent) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: missing url", ErrInvalidInput)
	}
	if !c.ContentType.Valid() {
		return fmt.Errorf("%w: unknown content type %q", ErrInvalidInput, c.ContentType)
	}
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidInput)
	}
	return nil
}

// MaxChunkContentLength bounds the stored content of a single chunk.
const MaxChunkContentLength = 10000

// ChunkIDPrefixLength is how much of the chunk content participates in
// the ID hash. Enough to distinguish edited content at the same
// position without hashing whole chunks.
const ChunkIDPrefixLength = 100

// ContentChunk is a unit of retrievable text. Chunks are immutable once
// stored; re-ingestion of identical input reproduces identical IDs.
type ContentChunk struct {
	// ID is deterministically derived from (source URL, chunk index,
	// content prefix). See ChunkID.
	ID string

	// Content is the chunk text, bounded by MaxChunkContentLength.
	Content string

	// SourceURL is the URL of the originating document.
	SourceURL string

	// Title is the title of the originating document.
	Title string

	// ContentType records the extraction path of the source.
	ContentType ContentType

	// ChunkIndex is the ordinal position within the source document.
	// Invariant: 0 <= ChunkIndex < TotalChunks.
	ChunkIndex int

	// TotalChunks is the number of chunks the source produced at
	// ingestion time.
	TotalChunks int

	// Timestamp is the ingestion time.
	Timestamp time.Time

	// Metadata contains source-level key-value pairs.
	Metadata map[string]any

	// Embedding is the fixed-dimension vector, computed once at
	// ingestion and never mutated.
	Embedding []float32
}

// ChunkID derives the deterministic chunk identifier from the source
// URL, chunk index and the first ChunkIDPrefixLength characters of the
// chunk content.
//
// Identical (url, index, content) always hashes to the same ID, which
// makes re-ingestion of unchanged content idempotent at the record
// level. Edited content at the same index produces a NEW id and leaves
// the old row orphaned; callers wanting clean re-ingestion must delete
// by source URL first. This matches the original system's behaviour
// and is deliberate.
func ChunkID(sourceURL string, chunkIndex int, content string) string {
	prefix := content
	if len(prefix) > ChunkIDPrefixLength {
		prefix = prefix[:ChunkIDPrefixLength]
	}
	sum := md5.Sum(fmt.Appendf(nil, "%s:%d:%s", sourceURL, chunkIndex, prefix)) //nolint:gosec
	return fmt.Sprintf("%x_%d", sum, chunkIndex)
}

// IngestStatus summarises the outcome of an ingestion operation.
type IngestStatus string

const (
	// IngestStatusStored means at least one chunk was stored.
	IngestStatusStored IngestStatus = "stored"

	// IngestStatusRejected means the content failed validation and
	// nothing was stored.
	IngestStatusRejected IngestStatus = "rejected"

	// IngestStatusFailed means chunks were produced but none could be
	// embedded and stored.
	IngestStatusFailed IngestStatus = "failed"
)

// IngestOutcome reports what an ingestion attempt did.
type IngestOutcome struct {
	// StoredChunks is the number of chunks embedded and upserted.
	StoredChunks int

	// SkippedChunks is the number of chunks dropped because their
	// embedding failed.
	SkippedChunks int

	// TotalChunks is the number of chunks the chunker produced.
	TotalChunks int

	// Status is the overall outcome.
	Status IngestStatus
}
