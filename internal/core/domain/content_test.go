package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkID_Deterministic(t *testing.T) {
	a := ChunkID("https://example.com/post", 3, "some chunk content")
	b := ChunkID("https://example.com/post", 3, "some chunk content")

	assert.Equal(t, a, b)
	assert.True(t, strings.HasSuffix(a, "_3"))
}

func TestChunkID_DistinguishesInputs(t *testing.T) {
	base := ChunkID("https://example.com/a", 0, "content")

	assert.NotEqual(t, base, ChunkID("https://example.com/b", 0, "content"))
	assert.NotEqual(t, base, ChunkID("https://example.com/a", 1, "content"))
	assert.NotEqual(t, base, ChunkID("https://example.com/a", 0, "different"))
}

func TestChunkID_OnlyPrefixParticipates(t *testing.T) {
	prefix := strings.Repeat("x", ChunkIDPrefixLength)

	// Content differing only past the prefix produces the same ID.
	a := ChunkID("https://example.com", 0, prefix+"tail one")
	b := ChunkID("https://example.com", 0, prefix+"tail two")

	assert.Equal(t, a, b)
}

func TestContentType_Valid(t *testing.T) {
	tests := []struct {
		contentType ContentType
		want        bool
	}{
		{ContentTypeWeb, true},
		{ContentTypeYouTube, true},
		{ContentTypeManual, true},
		{ContentType("rss"), false},
		{ContentType(""), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.contentType.Valid(), "type %q", tt.contentType)
	}
}

func TestContentType_MinContentLength(t *testing.T) {
	assert.Equal(t, 100, ContentTypeWeb.MinContentLength())
	assert.Equal(t, 50, ContentTypeYouTube.MinContentLength())
	assert.Equal(t, 100, ContentTypeManual.MinContentLength())
}

func TestExtractedContent_Validate(t *testing.T) {
	valid := ExtractedContent{
		Title:       "Intro to Pandas",
		Text:        "Pandas is a data analysis library.",
		URL:         "https://example.com/pandas",
		ContentType: ContentTypeWeb,
	}
	require.NoError(t, valid.Validate())

	missingURL := valid
	missingURL.URL = ""
	assert.ErrorIs(t, missingURL.Validate(), ErrInvalidInput)

	badType := valid
	badType.ContentType = "podcast"
	assert.ErrorIs(t, badType.Validate(), ErrInvalidInput)

	blank := valid
	blank.Text = "   \n\t"
	assert.ErrorIs(t, blank.Validate(), ErrInvalidInput)
}
