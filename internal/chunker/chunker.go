// Package chunker splits normalised text into overlapping chunks with
// sentence-boundary snapping.
package chunker

import "strings"

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 50

// sentenceTerminators mark boundaries the splitter prefers to cut at.
var sentenceTerminators = []string{". ", "! ", "? ", "\n\n"}

// Splitter produces overlapping substrings suitable for independent
// embedding. Chunk boundaries snap backward to the nearest sentence
// terminator past the window midpoint; when none exists the raw cut is
// kept, which can fall mid-word.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split divides text into ordered, trimmed, non-empty chunks covering
// the whole input. Text at or under the chunk size comes back as a
// single chunk.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	estimated := len(text)/(s.chunkSize-s.overlap) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for start < len(text) {
		end := start + s.chunkSize
		if end >= len(text) {
			if chunk := strings.TrimSpace(text[start:]); chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		end = s.snapToSentence(text, start, end)
		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		// Snapping can pull end back far enough that the overlap would
		// stall or rewind the window; force forward progress.
		next := end - s.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// snapToSentence searches backward from end for the nearest sentence
// terminator strictly past the window midpoint and returns the position
// just after it. Without one, the raw cut stands.
func (s *Splitter) snapToSentence(text string, start, end int) int {
	midpoint := start + s.chunkSize/2
	for _, term := range sentenceTerminators {
		if idx := strings.LastIndex(text[start:end], term); idx >= 0 {
			abs := start + idx
			if abs > midpoint {
				return abs + len(term)
			}
		}
	}
	return end
}
