package models

import (
	"fmt"
	"net/url"
	"strings"
)

// Video is an external link stored under videos/{id}. IDs are generated by
// the caller from the current time in milliseconds.
type Video struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

const (
	youTubeThumbnailFormat = "https://img.youtube.com/vi/%s/hqdefault.jpg"
	youTubeEmbedFormat     = "https://www.youtube.com/embed/%s"
)

// SanitizeVideoURL keeps only the scheme, host and path of raw. Query
// strings and fragments are dropped unconditionally.
func SanitizeVideoURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse video url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("video url %q is not absolute", raw)
	}
	return u.Scheme + "://" + u.Host + u.EscapedPath(), nil
}

// YouTubeID extracts a video ID using exactly two rules: the segment after
// "youtu.be/" up to the first '?', or the value after "v=" up to the first
// '&'. Any other shape yields "".
func YouTubeID(raw string) string {
	if _, after, ok := strings.Cut(raw, "youtu.be/"); ok {
		id, _, _ := strings.Cut(after, "?")
		return id
	}
	if _, after, ok := strings.Cut(raw, "v="); ok {
		id, _, _ := strings.Cut(after, "&")
		return id
	}
	return ""
}

// YouTubeThumbnailURL returns the hqdefault thumbnail for a video URL, or ""
// when no ID can be extracted.
func YouTubeThumbnailURL(raw string) string {
	id := YouTubeID(raw)
	if id == "" {
		return ""
	}
	return fmt.Sprintf(youTubeThumbnailFormat, id)
}

// YouTubeEmbedURL returns the iframe URL for a video URL, or "".
func YouTubeEmbedURL(raw string) string {
	id := YouTubeID(raw)
	if id == "" {
		return ""
	}
	return fmt.Sprintf(youTubeEmbedFormat, id)
}
