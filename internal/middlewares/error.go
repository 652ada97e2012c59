package middlewares

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/btmxh/folio/internal/html"
	"github.com/btmxh/folio/internal/stores"
	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "Internal server error"

// ErrorMiddleware logs every error attached to the request and hands the
// public ones to callback. Private errors only show up as a generic message.
func ErrorMiddleware(callback func(c *gin.Context, title string, messages []string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		title := stores.GetErrorTitle(c)
		slog.Warn("Error handling request", "title", title, "path", c.Request.URL.Path, "errors", c.Errors.String())

		if c.Writer.Written() {
			return
		}

		var messages []string
		for _, err := range c.Errors {
			if err.Type == gin.ErrorTypePublic {
				messages = append(messages, err.Error())
			}
		}

		if len(messages) == 0 {
			messages = []string{internalErrorMessage}
			if c.Writer.Status() < http.StatusBadRequest {
				c.Status(http.StatusInternalServerError)
			}
		}

		callback(c, title, messages)
	}
}

func JSONErrorCallback(c *gin.Context, title string, messages []string) {
	c.JSON(c.Writer.Status(), gin.H{
		"title":  title,
		"errors": messages,
	})
}

func HTMLErrorCallback(c *gin.Context, title string, messages []string) {
	escaped := make([]string, 0, len(messages))
	for _, msg := range messages {
		escaped = append(escaped, string(html.StringAsHTML(msg)))
	}

	// join all descriptions with separator being <br>
	html.RenderError(c, html.StringAsHTML(title), template.HTML(strings.Join(escaped, "<br>")))
}

// ErrorCallback answers API routes with JSON and everything else with the
// error page.
func ErrorCallback(c *gin.Context, title string, messages []string) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") || strings.Contains(c.GetHeader("Accept"), "application/json") {
		JSONErrorCallback(c, title, messages)
		return
	}

	HTMLErrorCallback(c, title, messages)
}
