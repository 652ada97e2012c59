package media

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// VideoURLFormatError reports a reference that looked supported but could not
// be parsed. Callers must not treat it as a pass-through case.
type VideoURLFormatError struct {
	URL string
	Err error
}

func (e *VideoURLFormatError) Error() string {
	return fmt.Sprintf("Invalid video URL format %q: %v", e.URL, e.Err)
}

func (e *VideoURLFormatError) Unwrap() error {
	return e.Err
}

const youtubeEmbedPrefix = "https://www.youtube.com/embed/"

var playlistMarkers = []string{"/embed/videoseries", "/embed/series"}

var youtubeHostRegex = regexp.MustCompile(`(?i)^(?:https?://)?(?:[a-z0-9-]+\.)*(?:youtube\.com|youtu\.be)(?:[:/?#]|$)`)
var driveHostRegex = regexp.MustCompile(`(?i)^(?:https?://)?(?:(?:drive|docs)\.google\.com|(?:[a-z0-9-]+\.)*driveplyr\.[a-z]+)(?:[:/?#]|$)`)

func checkId(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		suitable := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
		if !suitable {
			return false
		}
	}

	return true
}

func isMarkup(raw string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(raw)), "<iframe")
}

func isPlaylist(raw string) bool {
	for _, marker := range playlistMarkers {
		if strings.Contains(raw, marker) {
			return true
		}
	}

	return false
}

// Classify maps every input to exactly one kind. Markup is recognized before
// hosts so that a fragment embedding a YouTube URL is never rewritten.
func Classify(raw string) MediaKind {
	switch {
	case raw == "":
		return MediaKindNone
	case isPlaylist(raw):
		return MediaKindYoutubePlaylist
	case isMarkup(raw):
		return MediaKindMarkup
	case youtubeHostRegex.MatchString(strings.TrimSpace(raw)):
		return MediaKindYoutube
	case driveHostRegex.MatchString(strings.TrimSpace(raw)):
		return MediaKindDrive
	default:
		return MediaKindDirect
	}
}

func parseLenient(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	return url.Parse(raw)
}

// youtubeVideoId extracts the id of a YouTube URL: the short-link path first,
// then the v parameter, then the segment after /embed/. An empty id with a nil
// error means the shape is not supported.
func youtubeVideoId(raw string) (string, error) {
	u, err := parseLenient(raw)
	if err != nil {
		return "", err
	}

	path := strings.TrimPrefix(u.Path, "/")
	host := strings.ToLower(u.Hostname())

	var id string
	if host == "youtu.be" || strings.HasSuffix(host, ".youtu.be") {
		id, _, _ = strings.Cut(path, "/")
	} else if v := u.Query().Get("v"); v != "" {
		id = v
	} else if _, rest, found := strings.Cut(u.Path, "/embed/"); found {
		id, _, _ = strings.Cut(rest, "?")
		id, _, _ = strings.Cut(id, "/")
	}

	if !checkId(id) {
		return "", nil
	}

	return id, nil
}

func normalizeVideoURL(raw string) (string, error) {
	switch Classify(raw) {
	case MediaKindNone:
		return "", nil
	case MediaKindYoutube:
		id, err := youtubeVideoId(raw)
		if err != nil {
			return "", err
		}
		if id == "" {
			return raw, nil
		}

		return youtubeEmbedPrefix + id, nil
	case MediaKindDrive:
		return TransformDriveLink(raw), nil
	default:
		return raw, nil
	}
}

// NormalizeVideoURL rewrites a raw media reference into a URL (or markup
// fragment) that can be assigned to a playback surface as is. It never touches
// the network and is idempotent.
func NormalizeVideoURL(raw string) (normalized string, err error) {
	defer func() {
		if r := recover(); r != nil {
			normalized = ""
			err = &VideoURLFormatError{URL: raw, Err: fmt.Errorf("%v", r)}
		}
	}()

	normalized, err = normalizeVideoURL(raw)
	if err != nil {
		return "", &VideoURLFormatError{URL: raw, Err: err}
	}

	return normalized, nil
}

// IsWellFormedURL reports whether src is an absolute http(s) URL with a host.
func IsWellFormedURL(src string) bool {
	if src == "" || strings.TrimSpace(src) != src {
		return false
	}

	u, err := url.ParseRequestURI(src)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
