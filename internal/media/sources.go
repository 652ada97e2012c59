package media

import (
	"context"
	"net/url"
	"time"

	"github.com/btmxh/folio/internal/cache"
	"github.com/btmxh/folio/internal/clock"
)

const DefaultInfoCacheTTL = 30 * time.Minute

// Resolver looks up metadata by trying each source in order. Results are
// cached by embed URL.
type Resolver struct {
	sources []MediaSource
	cache   *cache.Cache[*MediaInfo]
}

func NewResolver(c clock.Clock, ttl time.Duration, sources ...MediaSource) *Resolver {
	return &Resolver{sources: sources, cache: cache.New[*MediaInfo](c, ttl)}
}

// DefaultSources prefers the Data API when a key is configured.
func DefaultSources(youtubeApiKey string) []MediaSource {
	var sources []MediaSource
	if youtubeApiKey != "" {
		sources = append(sources, NewYoutubeAPI(youtubeApiKey))
	} else {
		sources = append(sources, NewYoutubeDL())
	}

	return append(sources, NewDirectMediaProber())
}

func (r *Resolver) Resolve(ctx context.Context, raw string) (*MediaInfo, error) {
	normalized, err := NormalizeVideoURL(raw)
	if err != nil {
		return nil, err
	}

	switch Classify(raw) {
	case MediaKindNone:
		return nil, ErrUnsupportedURL
	case MediaKindDrive, MediaKindMarkup, MediaKindYoutubePlaylist:
		return nil, ErrUnsupportedOperation
	}

	if info, ok := r.cache.Get(normalized); ok {
		return info, nil
	}

	mediaUrl, err := parseLenient(raw)
	if err != nil {
		return nil, &VideoURLFormatError{URL: raw, Err: err}
	}

	for _, source := range r.sources {
		info, err := source.ResolveMedia(ctx, mediaUrl)
		if err == ErrUnsupportedURL {
			continue
		}
		if err != nil {
			return nil, err
		}

		r.cache.Put(normalized, info)
		return info, nil
	}

	return nil, ErrUnsupportedURL
}
