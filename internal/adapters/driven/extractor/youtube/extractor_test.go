package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short URL", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed URL", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=30s", "dQw4w9WgXcQ"},
		{"v not first param", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"not youtube", "https://vimeo.com/12345", ""},
		{"plain text", "not a url", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractVideoID(tt.url))
		})
	}
}

func TestCanExtract(t *testing.T) {
	e := New(Config{})

	assert.True(t, e.CanExtract("https://www.youtube.com/watch?v=abc123"))
	assert.True(t, e.CanExtract("https://youtu.be/abc123"))
	assert.False(t, e.CanExtract("https://go.dev/doc"))
}

func TestPickCaptionTrack(t *testing.T) {
	page := `..."captionTracks":[{"baseUrl":"https://yt.example/tt?lang=fr","languageCode":"fr"},` +
		`{"baseUrl":"https://yt.example/tt?lang=en&kind=asr","languageCode":"en","kind":"asr"},` +
		`{"baseUrl":"https://yt.example/tt?lang=en","languageCode":"en"}]...`

	track, err := pickCaptionTrack(page)
	require.NoError(t, err)

	// Manual English wins over auto-generated and other languages.
	assert.Equal(t, "en", track.LanguageCode)
	assert.Empty(t, track.Kind)
}

func TestPickCaptionTrack_FallsBackToFirst(t *testing.T) {
	page := `"captionTracks":[{"baseUrl":"https://yt.example/tt?lang=de","languageCode":"de"}]`

	track, err := pickCaptionTrack(page)
	require.NoError(t, err)
	assert.Equal(t, "de", track.LanguageCode)
}

func TestPickCaptionTrack_NoTracks(t *testing.T) {
	_, err := pickCaptionTrack("<html>no captions here</html>")
	require.Error(t, err)
}

func TestFlattenTranscript(t *testing.T) {
	body := `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.0" dur="2.5">Welcome to the   course</text>
  <text start="2.5" dur="3.0">today we cover &amp;quot;interfaces&amp;quot;</text>
  <text start="5.5" dur="4.5">and error handling</text>
</transcript>`

	text, duration, err := flattenTranscript(body)
	require.NoError(t, err)

	assert.Contains(t, text, "Welcome to the course")
	assert.Contains(t, text, "and error handling")
	assert.NotContains(t, text, "  ")
	assert.InDelta(t, 10.0, duration, 0.001)
}

func TestFlattenTranscript_Empty(t *testing.T) {
	_, _, err := flattenTranscript(`<transcript></transcript>`)
	require.Error(t, err)
}

func TestExtractTitle(t *testing.T) {
	page := `<meta property="og:title" content="Go Concurrency Patterns"><title>Go Concurrency Patterns - YouTube</title>`
	assert.Equal(t, "Go Concurrency Patterns", extractTitle(page))

	pageNoOG := `<title>Go Concurrency Patterns - YouTube</title>`
	assert.Equal(t, "Go Concurrency Patterns", extractTitle(pageNoOG))

	assert.Empty(t, extractTitle("<html></html>"))
}
