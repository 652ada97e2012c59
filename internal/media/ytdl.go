package media

import (
	"context"
	"fmt"
	"time"

	"github.com/wader/goutubedl"
)

type YtdlResolver struct {
	options goutubedl.Options
}

func NewYtdlResolver() *YtdlResolver {
	return &YtdlResolver{options: goutubedl.Options{Type: goutubedl.TypeSingle}}
}

func (yt *YtdlResolver) Resolve(ctx context.Context, mediaUrl string) (*MediaInfo, error) {
	result, err := goutubedl.New(ctx, mediaUrl, yt.options)
	if err != nil {
		return nil, err
	}

	title := result.Info.Title
	if title == "" {
		title = UnknownTitle
	}

	artist := result.Info.Channel
	if artist == "" {
		artist = UnknownArtist
	}

	aspectRatio := "16/9"
	if result.Info.Width > 0 && result.Info.Height > 0 {
		aspectRatio = fmt.Sprintf("%d/%d", int(result.Info.Width), int(result.Info.Height))
	}

	return &MediaInfo{
		Title:       title,
		Artist:      artist,
		Duration:    time.Duration(result.Info.Duration * float64(time.Second)),
		AspectRatio: aspectRatio,
	}, nil
}
