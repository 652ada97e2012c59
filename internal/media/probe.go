package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"path"
	"strings"
	"time"

	ffprobe "gopkg.in/vansante/go-ffprobe.v2"
)

const DefaultProbeTimeout = 15 * time.Second

var ErrForbiddenHost = errors.New("Media host is not publicly reachable")

// DirectMediaProber reads metadata of direct media files with ffprobe.
type DirectMediaProber struct {
	timeout  time.Duration
	lookupIP func(ctx context.Context, host string) ([]net.IP, error)
}

func NewDirectMediaProber() *DirectMediaProber {
	return &DirectMediaProber{
		timeout: DefaultProbeTimeout,
		lookupIP: func(ctx context.Context, host string) ([]net.IP, error) {
			return net.DefaultResolver.LookupIP(ctx, "ip", host)
		},
	}
}

func isPublicIP(ip net.IP) bool {
	return !(ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast() || ip.IsMulticast())
}

// checkHost refuses hosts that resolve to loopback, private or link-local
// addresses, so a probe request can not reach the internal network.
func (p *DirectMediaProber) checkHost(ctx context.Context, host string) error {
	if strings.EqualFold(host, "localhost") || strings.HasSuffix(strings.ToLower(host), ".localhost") {
		return ErrForbiddenHost
	}

	ips := []net.IP{net.ParseIP(host)}
	if ips[0] == nil {
		var err error
		if ips, err = p.lookupIP(ctx, host); err != nil {
			return err
		}
	}

	for _, ip := range ips {
		if !isPublicIP(ip) {
			return ErrForbiddenHost
		}
	}
	return nil
}

func (p *DirectMediaProber) Kind() MediaKind {
	return MediaKindDirect
}

func (p *DirectMediaProber) ResolveMedia(ctx context.Context, u *url.URL) (*MediaInfo, error) {
	raw := u.String()
	if Classify(raw) != MediaKindDirect || !IsWellFormedURL(raw) {
		return nil, ErrUnsupportedURL
	}

	if err := p.checkHost(ctx, u.Hostname()); err != nil {
		slog.Warn("Refusing to probe media host", "url", raw, "err", err)
		return nil, ErrForbiddenHost
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	slog.Debug("Probing direct media", "url", raw)
	data, err := ffprobe.ProbeURL(ctx, raw)
	if err != nil {
		return nil, err
	}

	title, err := data.Format.TagList.GetString("title")
	if err != nil || title == "" {
		title = path.Base(u.Path)
	}

	artist, err := data.Format.TagList.GetString("artist")
	if err != nil {
		artist = UnknownArtist
	}

	aspectRatio := "16/9"
	if stream := data.FirstVideoStream(); stream != nil && stream.Width > 0 && stream.Height > 0 {
		aspectRatio = fmt.Sprintf("%d/%d", stream.Width, stream.Height)
	}

	return &MediaInfo{
		Kind:        MediaKindDirect,
		URL:         raw,
		EmbedURL:    raw,
		Title:       title,
		Artist:      artist,
		Duration:    data.Format.Duration(),
		AspectRatio: aspectRatio,
		Thumbnail:   PlaceholderThumbnail,
	}, nil
}
