package media

import (
	"html/template"
	"strings"
)

const DefaultEmbedTitle = "Video"

const embedAllow = "autoplay; clipboard-write; encrypted-media; fullscreen; picture-in-picture"

var embedTemplate = template.Must(template.New("embed").Parse(
	`<iframe src="{{.Src}}" width="100%" height="100%" frameborder="0" style="border: 0" title="{{.Title}}" allow="{{.Allow}}" allowfullscreen></iframe>`,
))

// WrapAsEmbedMarkup returns an iframe fragment for raw. Markup is returned
// byte for byte.
func WrapAsEmbedMarkup(raw, title string) (string, error) {
	if isMarkup(raw) {
		return raw, nil
	}

	src, err := NormalizeVideoURL(raw)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(title) == "" {
		title = DefaultEmbedTitle
	}

	var out strings.Builder
	err = embedTemplate.Execute(&out, map[string]string{
		"Src":   src,
		"Title": title,
		"Allow": embedAllow,
	})
	if err != nil {
		return "", err
	}

	return out.String(), nil
}
