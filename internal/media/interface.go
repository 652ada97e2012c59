package media

import (
	"context"
	"errors"
	"net/url"
	"time"
)

type MediaKind string

const (
	MediaKindNone            MediaKind = "none"
	MediaKindYoutube         MediaKind = "yt"
	MediaKindYoutubePlaylist MediaKind = "yt-playlist"
	MediaKindDrive           MediaKind = "drive"
	MediaKindMarkup          MediaKind = "markup"
	MediaKindDirect          MediaKind = "direct"

	UnknownTitle  = "Unknown title"
	UnknownArtist = "Unknown artist"
)

var ErrUnsupportedURL = errors.New("Unsupported URL")
var ErrUnsupportedOperation = errors.New("Unsupported operation")
var ErrMediaNotFound = errors.New("Media not found")

// MediaInfo is the metadata shown next to a gallery entry.
type MediaInfo struct {
	Kind        MediaKind     `json:"kind"`
	URL         string        `json:"url"`
	EmbedURL    string        `json:"embedUrl"`
	Title       string        `json:"title"`
	Artist      string        `json:"artist"`
	Duration    time.Duration `json:"duration"`
	AspectRatio string        `json:"aspectRatio"`
	Thumbnail   string        `json:"thumbnail"`
}

// MediaSource resolves metadata for the URLs it recognizes. Sources return
// ErrUnsupportedURL for anything else so the next source can try.
type MediaSource interface {
	Kind() MediaKind
	ResolveMedia(ctx context.Context, u *url.URL) (*MediaInfo, error)
}
