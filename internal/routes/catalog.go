package routes

import (
	"errors"
	"net/http"

	"github.com/btmxh/folio/internal/db"
	"github.com/btmxh/folio/internal/errs"
	"github.com/btmxh/folio/internal/middlewares"
	"github.com/btmxh/folio/internal/services"
	"github.com/btmxh/folio/internal/stores"
	"github.com/gin-gonic/gin"
)

var invalidBodyError = errors.New("Invalid request body.")

// txRoute runs f in a transaction and answers with its result as JSON. A nil
// result means there is nothing to send back.
func txRoute(title string, status int, f func(c *gin.Context, tx *db.Tx) (result any, hasErr bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		handler := errs.NewGinErrorHandler(c, title)
		tx := db.BeginTx(c.Request.Context(), handler)
		if tx == nil {
			return
		}
		defer tx.Rollback()

		result, hasErr := f(c, tx)
		if hasErr || tx.Commit() {
			return
		}

		if result == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(status, result)
	}
}

func bindJSON[T any](c *gin.Context, tx *db.Tx) (input T, hasErr bool) {
	if err := c.ShouldBindJSON(&input); err != nil {
		tx.PrivateError(err)
		tx.PublicError(http.StatusBadRequest, invalidBodyError)
		return input, true
	}
	return input, false
}

// adminGroup registers the id routes and guards every write behind an admin
// session.
func adminGroup(g *gin.RouterGroup) (writes *gin.RouterGroup, id *gin.RouterGroup, idWrites *gin.RouterGroup) {
	writes = g.Group("", middlewares.MustAuthMiddleware())
	id = g.Group("/:id", middlewares.EntityIdMiddleware())
	idWrites = id.Group("", middlewares.MustAuthMiddleware())
	return writes, id, idWrites
}

func ProjectRouter(g *gin.RouterGroup) {
	writes, id, idWrites := adminGroup(g)

	g.GET("", txRoute("Error", http.StatusOK, func(c *gin.Context, tx *db.Tx) (any, bool) {
		offset, limit, err := services.ParsePaging(c.Query("offset"), c.Query("limit"))
		if err != nil {
			tx.PublicError(http.StatusBadRequest, err)
			return nil, true
		}
		return services.ListProjects(tx, c.Query("category"), offset, limit)
	}))
	id.GET("", txRoute("Error", http.StatusOK, func(c *gin.Context, tx *db.Tx) (any, bool) {
		return services.GetProject(tx, stores.GetEntityId(c))
	}))
	writes.POST("", txRoute("Create project error", http.StatusCreated, func(c *gin.Context, tx *db.Tx) (any, bool) {
		input, hasErr := bindJSON[services.ProjectInput](c, tx)
		if hasErr {
			return nil, true
		}
		return services.CreateProject(tx, input)
	}))
	idWrites.PUT("", txRoute("Update project error", http.StatusOK, func(c *gin.Context, tx *db.Tx) (any, bool) {
		input, hasErr := bindJSON[services.ProjectInput](c, tx)
		if hasErr || services.UpdateProject(tx, stores.GetEntityId(c), input) {
			return nil, true
		}
		return services.GetProject(tx, stores.GetEntityId(c))
	}))
	idWrites.DELETE("", txRoute("Delete project error", http.StatusNoContent, func(c *gin.Context, tx *db.Tx) (any, bool) {
		return nil, services.DeleteProject(tx, stores.GetEntityId(c))
	}))
}

func ExperienceRouter(g *gin.RouterGroup) {
	writes, id, idWrites := adminGroup(g)

	g.GET("", txRoute("Error", http.StatusOK, func(c *gin.Context, tx *db.Tx) (any, bool) {
		return services.ListExperiences(tx)
	}))
	id.GET("", txRoute("Error", http.StatusOK, func(c *gin.Context, tx *db.Tx) (any, bool) {
		return services.GetExperience(tx, stores.GetEntityId(c))
	}))
	writes.POST("", txRoute("Create experience error", http.StatusCreated, func(c *gin.Context, tx *db.Tx) (any, bool) {
		input, hasErr := bindJSON[services.ExperienceInput](c, tx)
		if hasErr {
			return nil, true
		}
		return services.CreateExperience(tx, input)
	}))
	idWrites.PUT("", txRoute("Update experience error", http.StatusOK, func(c *gin.Context, tx *db.Tx) (any, bool) {
		input, hasErr := bindJSON[services.ExperienceInput](c, tx)
		if hasErr || services.UpdateExperience(tx, stores.GetEntityId(c), input) {
			return nil, true
		}
		return services.GetExperience(tx, stores.GetEntityId(c))
	}))
	idWrites.DELETE("", txRoute("Delete experience error", http.StatusNoContent, func(c *gin.Context, tx *db.Tx) (any, bool) {
		return nil, services.DeleteExperience(tx, stores.GetEntityId(c))
	}))
}

func RoleRouter(g *gin.RouterGroup, catalog *services.Catalog) {
	writes, id, idWrites := adminGroup(g)

	g.GET("", txRoute("Error", http.StatusOK, func(c *gin.Context, tx *db.Tx) (any, bool) {
		return catalog.ListRoles(tx)
	}))
	id.GET("", txRoute("Error", http.StatusOK, func(c *gin.Context, tx *db.Tx) (any, bool) {
		return catalog.GetRole(tx, stores.GetEntityId(c))
	}))
	writes.POST("", txRoute("Create role error", http.StatusCreated, func(c *gin.Context, tx *db.Tx) (any, bool) {
		input, hasErr := bindJSON[services.RoleInput](c, tx)
		if hasErr {
			return nil, true
		}
		return catalog.CreateRole(tx, input)
	}))
	idWrites.PUT("", txRoute("Update role error", http.StatusOK, func(c *gin.Context, tx *db.Tx) (any, bool) {
		input, hasErr := bindJSON[services.RoleInput](c, tx)
		if hasErr || catalog.UpdateRole(tx, stores.GetEntityId(c), input) {
			return nil, true
		}
		return catalog.GetRole(tx, stores.GetEntityId(c))
	}))
	idWrites.DELETE("", txRoute("Delete role error", http.StatusNoContent, func(c *gin.Context, tx *db.Tx) (any, bool) {
		return nil, catalog.DeleteRole(tx, stores.GetEntityId(c))
	}))
}

func ToolRouter(g *gin.RouterGroup, catalog *services.Catalog) {
	writes, id, idWrites := adminGroup(g)

	g.GET("", txRoute("Error", http.StatusOK, func(c *gin.Context, tx *db.Tx) (any, bool) {
		return catalog.ListTools(tx)
	}))
	id.GET("", txRoute("Error", http.StatusOK, func(c *gin.Context, tx *db.Tx) (any, bool) {
		return catalog.GetTool(tx, stores.GetEntityId(c))
	}))
	writes.POST("", txRoute("Create tool error", http.StatusCreated, func(c *gin.Context, tx *db.Tx) (any, bool) {
		input, hasErr := bindJSON[services.ToolInput](c, tx)
		if hasErr {
			return nil, true
		}
		return catalog.CreateTool(tx, input)
	}))
	idWrites.PUT("", txRoute("Update tool error", http.StatusOK, func(c *gin.Context, tx *db.Tx) (any, bool) {
		input, hasErr := bindJSON[services.ToolInput](c, tx)
		if hasErr || catalog.UpdateTool(tx, stores.GetEntityId(c), input) {
			return nil, true
		}
		return catalog.GetTool(tx, stores.GetEntityId(c))
	}))
	idWrites.DELETE("", txRoute("Delete tool error", http.StatusNoContent, func(c *gin.Context, tx *db.Tx) (any, bool) {
		return nil, catalog.DeleteTool(tx, stores.GetEntityId(c))
	}))
}
