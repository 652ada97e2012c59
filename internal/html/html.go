package html

import (
	"embed"
	"fmt"
	"html/template"
	"maps"
	"time"

	"github.com/btmxh/folio/internal/auth"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var useCDN = false

func SetUseCDN(use bool) {
	useCDN = use
}

func StringAsHTML(s string) template.HTML {
	return template.HTML(template.HTMLEscapeString(s))
}

func CombineArgs(args ...gin.H) gin.H {
	all := gin.H{}
	for _, arg := range args {
		maps.Copy(all, arg)
	}
	return all
}

func RenderGin(tmpl *template.Template, c *gin.Context, block string, arg gin.H) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(c.Writer, block, CombineArgs(gin.H{"Context": c, "UseCDN": useCDN}, arg)); err != nil {
		c.Error(err).SetType(gin.ErrorTypeRender)
		return
	}
}

func DefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"HasUsername": func(c *gin.Context) bool {
			return auth.IsLoggedIn(c)
		},
		"GetUsername": func(c *gin.Context) string {
			return auth.GetUsername(c)
		},
		"FormatDuration": func(d time.Duration) string {
			hours := int(d / time.Hour)
			minutes := int((d % time.Hour) / time.Minute)
			seconds := int((d % time.Minute) / time.Second)

			return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
		},
		// Embed output is produced by media.WrapAsEmbedMarkup or is stored markup
		// that the admins entered themselves.
		"Embed": func(markup string) template.HTML {
			return template.HTML(markup)
		},
	}
}

// GetTemplate parses the named files from the embedded templates on top of
// the shared layout, so their blocks override the layout defaults.
func GetTemplate(name string, paths ...string) *template.Template {
	paths = append([]string{"templates/layout.tmpl"}, paths...)
	return template.Must(template.New(name).Funcs(DefaultFuncMap()).ParseFS(templateFS, paths...))
}
