package media

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/btmxh/folio/internal/clock"
)

type countingSource struct {
	kind  MediaKind
	calls int
}

func (s *countingSource) Kind() MediaKind {
	return s.kind
}

func (s *countingSource) ResolveMedia(_ context.Context, u *url.URL) (*MediaInfo, error) {
	if Classify(u.String()) != s.kind {
		return nil, ErrUnsupportedURL
	}

	s.calls++
	return &MediaInfo{Kind: s.kind, URL: u.String(), Title: "Showreel"}, nil
}

func TestResolverCachesByEmbedURL(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	yt := &countingSource{kind: MediaKindYoutube}
	r := NewResolver(clk, time.Minute, yt)

	for _, input := range []string{"https://youtu.be/abc123", "https://www.youtube.com/watch?v=abc123"} {
		info, err := r.Resolve(context.Background(), input)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", input, err)
		}
		if info.Title != "Showreel" {
			t.Fatalf("Unexpected title %q", info.Title)
		}
	}

	if yt.calls != 1 {
		t.Fatalf("Expected one source call, got %d", yt.calls)
	}

	clk.Advance(time.Minute)
	if _, err := r.Resolve(context.Background(), "https://youtu.be/abc123"); err != nil {
		t.Fatalf("Resolve after expiry failed: %v", err)
	}
	if yt.calls != 2 {
		t.Fatalf("Expected a refetch after expiry, got %d calls", yt.calls)
	}
}

func TestResolverSkipsUnsupportedSources(t *testing.T) {
	yt := &countingSource{kind: MediaKindYoutube}
	direct := &countingSource{kind: MediaKindDirect}
	r := NewResolver(clock.NewFake(time.Unix(0, 0)), time.Minute, yt, direct)

	info, err := r.Resolve(context.Background(), "https://cdn.example.com/a.mp4")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if info.Kind != MediaKindDirect || yt.calls != 0 || direct.calls != 1 {
		t.Fatalf("Wrong source used: %+v yt=%d direct=%d", info, yt.calls, direct.calls)
	}
}

func TestResolverUnsupportedKinds(t *testing.T) {
	r := NewResolver(clock.NewFake(time.Unix(0, 0)), time.Minute)

	if _, err := r.Resolve(context.Background(), "https://drive.google.com/file/d/XYZ/view"); err != ErrUnsupportedOperation {
		t.Fatalf("Expected ErrUnsupportedOperation for Drive, got %v", err)
	}
	if _, err := r.Resolve(context.Background(), ""); err != ErrUnsupportedURL {
		t.Fatalf("Expected ErrUnsupportedURL for empty input, got %v", err)
	}
	if _, err := r.Resolve(context.Background(), "https://cdn.example.com/a.mp4"); err != ErrUnsupportedURL {
		t.Fatalf("Expected ErrUnsupportedURL without sources, got %v", err)
	}
}
