package media

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/senseyeio/duration"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var ErrInvalidYTURL = errors.New("Invalid YouTube URL")

func isoDurationToGoDuration(d duration.Duration) time.Duration {
	return time.Duration(d.Y)*time.Hour*24*365 +
		time.Duration(d.M)*time.Hour*24*30 +
		time.Duration(d.W)*time.Hour*24*7 +
		time.Duration(d.D)*time.Hour*24 +
		time.Duration(d.TH)*time.Hour +
		time.Duration(d.TM)*time.Minute +
		time.Duration(d.TS)*time.Second
}

func youtubeWatchURL(id string) string {
	return "https://youtu.be/" + id
}

// youtubeIdFromURL accepts only single videos; playlists and unrecognized
// shapes are not resolvable.
func youtubeIdFromURL(u *url.URL) (string, error) {
	raw := u.String()
	if Classify(raw) != MediaKindYoutube {
		return "", ErrUnsupportedURL
	}

	id, err := youtubeVideoId(raw)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", ErrInvalidYTURL
	}

	return id, nil
}

// YoutubeAPI resolves metadata through the YouTube Data API v3.
type YoutubeAPI struct {
	apiKey string
}

func NewYoutubeAPI(apiKey string) *YoutubeAPI {
	return &YoutubeAPI{apiKey: apiKey}
}

func (yt *YoutubeAPI) newClient(ctx context.Context) (*youtube.Service, error) {
	return youtube.NewService(ctx, option.WithAPIKey(yt.apiKey))
}

func (yt *YoutubeAPI) Kind() MediaKind {
	return MediaKindYoutube
}

func (yt *YoutubeAPI) ResolveMedia(ctx context.Context, u *url.URL) (*MediaInfo, error) {
	id, err := youtubeIdFromURL(u)
	if err != nil {
		return nil, err
	}

	client, err := yt.newClient(ctx)
	if err != nil {
		return nil, err
	}

	response, err := client.Videos.List([]string{"snippet", "contentDetails"}).Id(id).MaxResults(1).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	if len(response.Items) < 1 {
		return nil, ErrMediaNotFound
	}

	video := response.Items[0]
	videoLength, err := duration.ParseISO8601(video.ContentDetails.Duration)
	if err != nil {
		return nil, err
	}

	return &MediaInfo{
		Kind:        MediaKindYoutube,
		URL:         youtubeWatchURL(id),
		EmbedURL:    youtubeEmbedPrefix + id,
		Title:       video.Snippet.Title,
		Artist:      video.Snippet.ChannelTitle,
		Duration:    isoDurationToGoDuration(videoLength),
		AspectRatio: "16/9",
		Thumbnail:   Thumbnail(youtubeWatchURL(id)),
	}, nil
}

// YoutubeDL resolves YouTube metadata with yt-dlp, for deployments without an
// API key.
type YoutubeDL struct {
	resolver *YtdlResolver
}

func NewYoutubeDL() *YoutubeDL {
	return &YoutubeDL{resolver: NewYtdlResolver()}
}

func (yt *YoutubeDL) Kind() MediaKind {
	return MediaKindYoutube
}

func (yt *YoutubeDL) ResolveMedia(ctx context.Context, u *url.URL) (*MediaInfo, error) {
	id, err := youtubeIdFromURL(u)
	if err != nil {
		return nil, err
	}

	info, err := yt.resolver.Resolve(ctx, youtubeWatchURL(id))
	if err != nil {
		return nil, err
	}

	info.Kind = MediaKindYoutube
	info.URL = youtubeWatchURL(id)
	info.EmbedURL = youtubeEmbedPrefix + id
	info.Thumbnail = Thumbnail(info.URL)
	return info, nil
}
