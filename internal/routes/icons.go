package routes

import (
	"net/http"

	"github.com/btmxh/folio/internal/icons"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

func IconRouter(g *gin.RouterGroup, registry *icons.Registry) {
	g.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, lo.Map(registry.Keys(), func(key string, _ int) icons.Icon {
			return registry.Get(key)
		}))
	})

	// unknown keys answer with the fallback icon
	g.GET("/:key", func(c *gin.Context) {
		icon, known := registry.Lookup(c.Param("key"))
		c.JSON(http.StatusOK, gin.H{"icon": icon, "known": known})
	})
}
