package routes

import (
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/btmxh/folio/internal/html"
	"github.com/btmxh/folio/internal/media"
	"github.com/btmxh/folio/internal/middlewares"
	"github.com/btmxh/folio/internal/services"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Resolver *media.Resolver
	Catalog  *services.Catalog
	Sockets  *services.WebSocketManager
}

func getTemplate(name string, paths ...string) *template.Template {
	return html.GetTemplate(name, paths...)
}

func gzipMode() int {
	mode, ok := os.LookupEnv("GZIP_MODE")
	if !ok {
		return gzip.DefaultCompression
	}

	level, err := strconv.Atoi(mode)
	if err != nil {
		slog.Warn("Invalid value for GZIP_MODE environment variable", "err", err)
		return gzip.NoCompression
	}
	return level
}

func CreateMainRouter(deps Dependencies) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.LogMiddleware())
	// the websocket upgrade must see the raw connection
	router.Use(gzip.Gzip(gzipMode(), gzip.WithExcludedPaths([]string{"/ws/"})))
	router.Use(middlewares.ErrorMiddleware(middlewares.ErrorCallback))
	router.Use(middlewares.AuthMiddleware())

	api := router.Group("/api")
	EmbedRouter(api.Group("/embed"), deps.Resolver)
	ProjectRouter(api.Group("/projects"))
	ExperienceRouter(api.Group("/experiences"))
	RoleRouter(api.Group("/roles"), deps.Catalog)
	ToolRouter(api.Group("/tools"), deps.Catalog)
	IconRouter(api.Group("/icons"), deps.Catalog.Icons())

	AuthRouter(router.Group("/auth"))
	PlayerRouter(router.Group("/embed"))
	WebSocketRouter(router.Group("/ws"), deps.Sockets)

	router.Static("/scripts", "./dist/scripts")
	router.Static("/styles", "./dist/styles")
	router.Static("/assets", "./dist/assets")

	return router
}
