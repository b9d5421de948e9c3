// Package youtube provides a content extractor for YouTube video transcripts.
//
// YouTube exposes caption tracks through a timedtext endpoint referenced
// from the watch page. The extractor fetches the watch page, locates a
// caption track (preferring English), downloads the transcript XML, and
// flattens it into plain text. Videos without captions are not extractable.
package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mentora-labs/mentora-cli/internal/core/domain"
	"github.com/mentora-labs/mentora-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.ContentExtractor = (*Extractor)(nil)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond throttles outbound fetches.
	DefaultRequestsPerSecond = 1.0

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Config holds configuration for the YouTube extractor.
type Config struct {
	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond throttles fetches (default: 1.0).
	RequestsPerSecond float64
}

// Extractor fetches YouTube video transcripts.
type Extractor struct {
	client  *http.Client
	limiter *rate.Limiter
}

// New creates a new YouTube extractor.
func New(cfg Config) *Extractor {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Extractor{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// Video ID patterns, checked in order.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
}

// Watch page parsing patterns.
var (
	captionTracksJSON = regexp.MustCompile(`"captionTracks":(\[.*?\])`)
	ogTitleMeta       = regexp.MustCompile(`<meta\s+property="og:title"\s+content="([^"]*)"`)
	titleTag          = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	multiSpaces       = regexp.MustCompile(`\s+`)
)

// captionTrack is the caption track descriptor embedded in the watch page.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// transcriptXML is the timedtext transcript format.
type transcriptXML struct {
	Texts []transcriptText `xml:"text"`
}

type transcriptText struct {
	Start    float64 `xml:"start,attr"`
	Duration float64 `xml:"dur,attr"`
	Content  string  `xml:",chardata"`
}

// CanExtract reports whether the URL is a recognisable YouTube video URL.
func (e *Extractor) CanExtract(rawURL string) bool {
	return ExtractVideoID(rawURL) != ""
}

// ExtractVideoID pulls the video ID out of a YouTube URL.
// Returns the empty string when no ID can be found.
func ExtractVideoID(rawURL string) string {
	for _, pattern := range videoIDPatterns {
		if matches := pattern.FindStringSubmatch(rawURL); len(matches) > 1 {
			return matches[1]
		}
	}
	return ""
}

// Extract fetches the video transcript and returns it as plain text.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*domain.ExtractedContent, error) {
	videoID := ExtractVideoID(rawURL)
	if videoID == "" {
		return nil, fmt.Errorf("%w: no video ID in %s", domain.ErrNotExtractable, rawURL)
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	page, err := e.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	track, err := pickCaptionTrack(page)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrNotExtractable, rawURL, err)
	}

	transcriptBody, err := e.get(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}

	text, duration, err := flattenTranscript(transcriptBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrNotExtractable, rawURL, err)
	}

	if len(text) < domain.ContentTypeYouTube.MinContentLength() {
		return nil, fmt.Errorf("%w: transcript too short (%d characters)", domain.ErrNotExtractable, len(text))
	}

	title := extractTitle(page)
	if title == "" {
		title = "YouTube Video " + videoID
	}

	return &domain.ExtractedContent{
		URL:         rawURL,
		Title:       title,
		Text:        text,
		ContentType: domain.ContentTypeYouTube,
		Metadata: map[string]any{
			"video_id":            videoID,
			"transcript_language": track.LanguageCode,
			"duration_seconds":    duration,
		},
	}, nil
}

// get fetches a URL and returns the body as a string.
func (e *Extractor) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetch %s: %v", domain.ErrNotExtractable, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: fetch %s: status %d", domain.ErrNotExtractable, rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return string(body), nil
}

// pickCaptionTrack finds the best caption track in the watch page.
// English tracks are preferred, manual over auto-generated, then any track.
func pickCaptionTrack(page string) (*captionTrack, error) {
	matches := captionTracksJSON.FindStringSubmatch(page)
	if len(matches) < 2 {
		return nil, fmt.Errorf("no caption tracks found")
	}

	var tracks []captionTrack
	if err := json.Unmarshal([]byte(matches[1]), &tracks); err != nil {
		return nil, fmt.Errorf("parse caption tracks: %w", err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no caption tracks available")
	}

	// Manual English track
	for _, t := range tracks {
		if isEnglish(t.LanguageCode) && t.Kind != "asr" {
			return &t, nil
		}
	}
	// Any English track
	for _, t := range tracks {
		if isEnglish(t.LanguageCode) {
			return &t, nil
		}
	}
	// First available
	return &tracks[0], nil
}

func isEnglish(code string) bool {
	return code == "en" || strings.HasPrefix(code, "en-")
}

// flattenTranscript joins timedtext entries into a single cleaned string
// and reports the video duration from the final entry.
func flattenTranscript(body string) (string, float64, error) {
	var transcript transcriptXML
	if err := xml.Unmarshal([]byte(body), &transcript); err != nil {
		return "", 0, fmt.Errorf("parse transcript: %w", err)
	}
	if len(transcript.Texts) == 0 {
		return "", 0, fmt.Errorf("empty transcript")
	}

	parts := make([]string, 0, len(transcript.Texts))
	for _, entry := range transcript.Texts {
		text := strings.TrimSpace(html.UnescapeString(entry.Content))
		if text != "" {
			parts = append(parts, text)
		}
	}

	full := multiSpaces.ReplaceAllString(strings.Join(parts, " "), " ")
	full = strings.TrimSpace(full)

	last := transcript.Texts[len(transcript.Texts)-1]
	duration := last.Start + last.Duration

	return full, duration, nil
}

// extractTitle reads the video title from og:title or the <title> tag.
func extractTitle(page string) string {
	if matches := ogTitleMeta.FindStringSubmatch(page); len(matches) > 1 {
		if title := strings.TrimSpace(html.UnescapeString(matches[1])); title != "" {
			return title
		}
	}
	if matches := titleTag.FindStringSubmatch(page); len(matches) > 1 {
		title := strings.TrimSpace(html.UnescapeString(matches[1]))
		title = strings.TrimSuffix(title, " - YouTube")
		return title
	}
	return ""
}
