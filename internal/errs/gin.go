package errs

import (
	"github.com/btmxh/folio/internal/stores"
	"github.com/gin-gonic/gin"
)

type GinErrorHandler struct {
	context *gin.Context
}

func NewGinErrorHandler(c *gin.Context, title string) *GinErrorHandler {
	stores.SetErrorTitle(c, title)
	return &GinErrorHandler{context: c}
}

func (e *GinErrorHandler) RenderError(err error) {
	e.context.Error(err).SetType(gin.ErrorTypeRender)
}

func (e *GinErrorHandler) PublicError(statusCode int, err error) {
	PublicError(e.context, statusCode, err)
}

func (e *GinErrorHandler) PrivateError(err error) {
	PrivateError(e.context, err)
}
