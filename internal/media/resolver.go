package media

import (
	"net/url"
	"strings"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// ResolveVideoID extracts the video identifier from a YouTube URL.
// Two host patterns are recognized: hosts containing "youtube.com" carry the
// identifier in the "v" query parameter, and hosts containing "youtu.be"
// carry it as the path with the leading separator stripped. Any other input,
// malformed URLs included, yields ok == false; resolution never errors.
func ResolveVideoID(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	host := parsed.Hostname()

	if strings.Contains(host, "youtube.com") {
		id := parsed.Query().Get("v")
		if id == "" {
			return "", false
		}
		return id, true
	}

	if strings.Contains(host, "youtu.be") {
		id := strings.TrimLeft(parsed.Path, "/")
		if id == "" {
			return "", false
		}
		return id, true
	}

	return "", false
}

// CanonicalWatchURL reassembles a video identifier into the long-form watch
// URL used by every downstream component, so short URLs never need
// special-casing past the resolver.
func CanonicalWatchURL(videoID string) string {
	return watchURLPrefix + videoID
}
