package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/btmxh/folio/internal/errs"
	"github.com/btmxh/folio/internal/html"
	"github.com/btmxh/folio/internal/media"
	"github.com/btmxh/folio/internal/middlewares"
	"github.com/gin-gonic/gin"
)

var missingUrlError = errors.New("Missing url parameter.")
var resolveError = errors.New("Unable to fetch media information. Please try again later.")

var playerTemplate = getTemplate("player", "templates/player.tmpl")

func EmbedRouter(g *gin.RouterGroup, resolver *media.Resolver) {
	g.GET("/normalize", normalizeHandler)
	g.GET("/markup", markupHandler)
	g.GET("/info", directProbeAuth, func(c *gin.Context) {
		infoHandler(c, resolver)
	})
}

// directProbeAuth restricts info lookups of direct media URLs, which make the
// server fetch the URL itself, to admins.
func directProbeAuth(c *gin.Context) {
	if media.Classify(strings.TrimSpace(c.Query("url"))) == media.MediaKindDirect {
		middlewares.MustAuthMiddleware()(c)
		return
	}
	c.Next()
}

// PlayerRouter serves the minimal page hosting a single player.
func PlayerRouter(g *gin.RouterGroup) {
	g.GET("", playerPageHandler)
}

func queryUrl(c *gin.Context, handler errs.ErrorHandler) (string, bool) {
	raw := strings.TrimSpace(c.Query("url"))
	if raw == "" {
		handler.PublicError(http.StatusBadRequest, missingUrlError)
		return "", false
	}
	return raw, true
}

func normalizeHandler(c *gin.Context) {
	handler := errs.NewGinErrorHandler(c, "Invalid video URL")
	raw, ok := queryUrl(c, handler)
	if !ok {
		return
	}

	embedUrl, err := media.NormalizeVideoURL(raw)
	if err != nil {
		handler.PublicError(http.StatusUnprocessableEntity, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"kind":      media.Classify(raw),
		"embedUrl":  embedUrl,
		"thumbnail": media.Thumbnail(raw),
	})
}

func markupHandler(c *gin.Context) {
	handler := errs.NewGinErrorHandler(c, "Invalid video URL")
	raw, ok := queryUrl(c, handler)
	if !ok {
		return
	}

	markup, err := media.WrapAsEmbedMarkup(raw, c.Query("title"))
	if err != nil {
		handler.PublicError(http.StatusUnprocessableEntity, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(markup))
}

func infoHandler(c *gin.Context, resolver *media.Resolver) {
	handler := errs.NewGinErrorHandler(c, "Media information error")
	raw, ok := queryUrl(c, handler)
	if !ok {
		return
	}

	info, err := resolver.Resolve(c.Request.Context(), raw)
	var formatErr *media.VideoURLFormatError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, info)
	case errors.As(err, &formatErr),
		errors.Is(err, media.ErrUnsupportedURL),
		errors.Is(err, media.ErrUnsupportedOperation),
		errors.Is(err, media.ErrForbiddenHost):
		handler.PublicError(http.StatusUnprocessableEntity, err)
	case errors.Is(err, media.ErrMediaNotFound):
		handler.PublicError(http.StatusNotFound, err)
	default:
		handler.PrivateError(err)
		handler.PublicError(http.StatusBadGateway, resolveError)
	}
}

func playerPageHandler(c *gin.Context) {
	handler := errs.NewGinErrorHandler(c, "Invalid video URL")
	raw := strings.TrimSpace(c.Query("url"))
	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		title = media.DefaultEmbedTitle
	}

	kind := media.Classify(raw)
	var source, markup string
	if raw != "" {
		var err error
		if source, err = media.NormalizeVideoURL(raw); err != nil {
			handler.PublicError(http.StatusUnprocessableEntity, err)
			return
		}
		if markup, err = media.WrapAsEmbedMarkup(raw, title); err != nil {
			handler.PublicError(http.StatusUnprocessableEntity, err)
			return
		}
	}
	if kind == media.MediaKindMarkup {
		source = ""
	}

	player := c.Query("player")
	if player == "" {
		player = "main"
	}

	html.RenderGin(playerTemplate, c, "layout", gin.H{
		"Title":     title,
		"Player":    player,
		"Page":      "embed",
		"Kind":      string(kind),
		"Source":    source,
		"Markup":    markup,
		"Thumbnail": media.Thumbnail(raw),
	})
}
