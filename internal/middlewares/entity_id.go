package middlewares

import (
	"errors"
	"net/http"

	"github.com/btmxh/folio/internal/errs"
	"github.com/btmxh/folio/internal/stores"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var InvalidIdError = errors.New("Invalid ID.")

// EntityIdMiddleware parses the :id path parameter as a UUID.
func EntityIdMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, err := uuid.Parse(ctx.Param("id"))
		if err != nil {
			handler := errs.NewGinErrorHandler(ctx, "Error")
			handler.PrivateError(err)
			handler.PublicError(http.StatusBadRequest, InvalidIdError)
			ctx.Abort()
			return
		}

		stores.SetEntityId(ctx, id)
		ctx.Next()
	}
}
