package media

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func checkNormalize(t *testing.T, input, expected string) {
	t.Helper()

	got, err := NormalizeVideoURL(input)
	if err != nil {
		t.Fatalf("NormalizeVideoURL(%q) failed: %v", input, err)
	}
	if got != expected {
		t.Fatalf("NormalizeVideoURL(%q) = %q, expected %q", input, got, expected)
	}
}

func obfuscated(payload string) string {
	return "https://driveplyr.com/embed?id=" + base64.URLEncoding.EncodeToString([]byte(payload))
}

func TestNormalizeYoutube(t *testing.T) {
	const expected = "https://www.youtube.com/embed/abc123"

	checkNormalize(t, "https://youtu.be/abc123", expected)
	checkNormalize(t, "https://www.youtube.com/watch?v=abc123", expected)
	checkNormalize(t, "https://youtube.com/watch?v=abc123&t=42s", expected)
	checkNormalize(t, "https://www.youtube.com/embed/abc123?autoplay=1&mute=1", expected)
	checkNormalize(t, "youtu.be/abc123?si=tracking", expected)
	checkNormalize(t, "https://m.youtube.com/watch?v=abc123", expected)
}

func TestNormalizeYoutubeWithoutId(t *testing.T) {
	for _, input := range []string{
		"https://www.youtube.com/",
		"https://www.youtube.com/@some-channel",
		"https://youtu.be/",
		"https://www.youtube.com/watch?v=bad%20id",
	} {
		checkNormalize(t, input, input)
	}
}

func TestNormalizePlaylist(t *testing.T) {
	input := "https://www.youtube.com/embed/series?list=PLxyz"
	checkNormalize(t, input, input)
	if Classify(input) != MediaKindYoutubePlaylist {
		t.Fatalf("Playlist reference classified as %s", Classify(input))
	}
}

func TestNormalizeDrive(t *testing.T) {
	checkNormalize(t, "https://drive.google.com/file/d/XYZ/view?usp=sharing", "https://drive.google.com/file/d/XYZ/preview")
	checkNormalize(t, "https://drive.google.com/file/d/XYZ", "https://drive.google.com/file/d/XYZ/preview")
	checkNormalize(t, obfuscated(`{"id":["FILE_1","FILE_2"]}`), "https://drive.google.com/file/d/FILE_1/preview")

	std := "https://driveplyr.com/embed?id=" + base64.StdEncoding.EncodeToString([]byte(`{"id":["FILE_9"],"pad":"~~~>>>"}`))
	checkNormalize(t, std, "https://drive.google.com/file/d/FILE_9/preview")
}

func TestNormalizeDriveInvalidPayload(t *testing.T) {
	for _, input := range []string{
		"https://driveplyr.com/embed?id=!!!not-base64!!!",
		obfuscated(`not json`),
		obfuscated(`{"id":[]}`),
		obfuscated(`{"other":["x"]}`),
		"https://drive.google.com/drive/folders",
	} {
		checkNormalize(t, input, input)
	}
}

func TestNormalizePassThrough(t *testing.T) {
	checkNormalize(t, "", "")
	checkNormalize(t, "  ", "  ")
	checkNormalize(t, "https://cdn.example.com/reel/showreel-2024.mp4", "https://cdn.example.com/reel/showreel-2024.mp4")

	markup := `<iframe src="https://www.youtube.com/embed/abc123?x=1"></iframe>`
	checkNormalize(t, markup, markup)
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, input := range []string{
		"",
		"https://youtu.be/abc123",
		"https://www.youtube.com/watch?v=abc123",
		"https://www.youtube.com/embed/abc123?start=3",
		"https://www.youtube.com/embed/series?list=PLxyz",
		"https://www.youtube.com/",
		"https://drive.google.com/file/d/XYZ/view?usp=sharing",
		obfuscated(`{"id":["FILE_1"]}`),
		"https://driveplyr.com/embed?id=%%%",
		`<iframe src=...></iframe>`,
		"https://cdn.example.com/a.mp4",
	} {
		once, err := NormalizeVideoURL(input)
		if err != nil {
			t.Fatalf("NormalizeVideoURL(%q) failed: %v", input, err)
		}
		twice, err := NormalizeVideoURL(once)
		if err != nil {
			t.Fatalf("NormalizeVideoURL(%q) failed: %v", once, err)
		}
		if once != twice {
			t.Fatalf("Not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestNormalizeFormatError(t *testing.T) {
	_, err := NormalizeVideoURL("https://www.youtube.com/embed/%zz")

	var formatErr *VideoURLFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Expected VideoURLFormatError, got %v", err)
	}
	if formatErr.URL != "https://www.youtube.com/embed/%zz" {
		t.Fatalf("Error carries wrong URL %q", formatErr.URL)
	}
}

func TestClassifyTotal(t *testing.T) {
	cases := map[string]MediaKind{
		"":                                    MediaKindNone,
		"   ":                                 MediaKindDirect,
		"https://youtu.be/abc123":             MediaKindYoutube,
		"https://notyoutube.com/watch?v=abc1": MediaKindDirect,
		"https://youtube.com/embed/videoseries?list=PL1": MediaKindYoutubePlaylist,
		"https://docs.google.com/file/d/XYZ/edit":        MediaKindDrive,
		"https://player.driveplyr.net/?id=abc":           MediaKindDrive,
		"  <IFRAME src='x'></IFRAME>":                    MediaKindMarkup,
		"/media/local.webm":                              MediaKindDirect,
	}

	for input, expected := range cases {
		if got := Classify(input); got != expected {
			t.Fatalf("Classify(%q) = %s, expected %s", input, got, expected)
		}
	}
}

func TestIsWellFormedURL(t *testing.T) {
	for input, expected := range map[string]bool{
		"https://cdn.example.com/a.mp4": true,
		"http://localhost:8080/a.webm":  true,
		"ftp://example.com/a.mp4":       false,
		"/relative/a.mp4":               false,
		"not a url":                     false,
		"":                              false,
		" https://example.com/a.mp4":    false,
	} {
		if got := IsWellFormedURL(input); got != expected {
			t.Fatalf("IsWellFormedURL(%q) = %v, expected %v", input, got, expected)
		}
	}
}

func TestWrapAsEmbedMarkup(t *testing.T) {
	markup, err := WrapAsEmbedMarkup("https://youtu.be/abc123", "")
	if err != nil {
		t.Fatalf("WrapAsEmbedMarkup failed: %v", err)
	}

	for _, part := range []string{
		`<iframe src="https://www.youtube.com/embed/abc123"`,
		`width="100%"`,
		`height="100%"`,
		`frameborder="0"`,
		`title="Video"`,
		`allow="autoplay; clipboard-write; encrypted-media; fullscreen; picture-in-picture"`,
		`allowfullscreen`,
	} {
		if !strings.Contains(markup, part) {
			t.Fatalf("Markup %q is missing %q", markup, part)
		}
	}

	again, err := WrapAsEmbedMarkup(markup, "ignored")
	if err != nil || again != markup {
		t.Fatalf("Wrapping markup twice changed it: %q", again)
	}
}

func TestWrapAsEmbedMarkupVerbatim(t *testing.T) {
	input := "<iframe src=...></iframe>"
	got, err := WrapAsEmbedMarkup(input, "Reel")
	if err != nil {
		t.Fatalf("WrapAsEmbedMarkup failed: %v", err)
	}
	if got != input {
		t.Fatalf("Markup was modified: %q", got)
	}
}

func TestWrapAsEmbedMarkupEscapesTitle(t *testing.T) {
	markup, err := WrapAsEmbedMarkup("https://cdn.example.com/a.mp4", `"Robots" <breakdown>`)
	if err != nil {
		t.Fatalf("WrapAsEmbedMarkup failed: %v", err)
	}
	if strings.Contains(markup, `<breakdown>`) || !strings.Contains(markup, "&#34;Robots&#34;") {
		t.Fatalf("Title not escaped: %q", markup)
	}
}

func TestThumbnail(t *testing.T) {
	if got := Thumbnail("https://www.youtube.com/watch?v=abc123"); got != "https://i3.ytimg.com/vi/abc123/maxresdefault.jpg" {
		t.Fatalf("Unexpected YouTube thumbnail %q", got)
	}
	if got := Thumbnail("https://drive.google.com/file/d/XYZ/view"); got != "https://drive.google.com/thumbnail?id=XYZ" {
		t.Fatalf("Unexpected Drive thumbnail %q", got)
	}
	if got := Thumbnail("https://cdn.example.com/a.mp4"); got != PlaceholderThumbnail {
		t.Fatalf("Unexpected direct thumbnail %q", got)
	}
}
