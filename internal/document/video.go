package document

import (
	"net/url"
	"regexp"
	"strings"
)

// YouTube video identifiers are exactly 11 characters of this alphabet.
var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// VideoID canonicalizes a video URL to its stable identifier. It accepts
// the watch form (youtube.com/watch?v=ID), the short form (youtu.be/ID)
// and the embed form (youtube.com/embed/ID). A URL matching none of the
// recognized shapes yields no identifier rather than a partial one.
func VideoID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	var id string
	switch host {
	case "youtu.be":
		id = firstPathSegment(u.Path)

	case "youtube.com", "m.youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = firstPathSegment(strings.TrimPrefix(u.Path, "/embed"))
		}
	}

	if !videoIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

func firstPathSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}
