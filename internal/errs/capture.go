package errs

import "github.com/gin-gonic/gin"

type CaptureErrorHandler struct {
	Errors     []gin.Error
	StatusCode int
}

func NewCapturingErrorHandler() *CaptureErrorHandler {
	return &CaptureErrorHandler{}
}

func (e *CaptureErrorHandler) RenderError(err error) {
	e.Errors = append(e.Errors, gin.Error{Err: err, Type: gin.ErrorTypeRender})
}

func (e *CaptureErrorHandler) PublicError(statusCode int, err error) {
	e.StatusCode = statusCode
	e.Errors = append(e.Errors, gin.Error{Err: err, Type: gin.ErrorTypePublic})
}

func (e *CaptureErrorHandler) PrivateError(err error) {
	e.Errors = append(e.Errors, gin.Error{Err: err, Type: gin.ErrorTypePrivate})
}

// Public returns the captured public errors in order.
func (e *CaptureErrorHandler) Public() []error {
	var public []error
	for _, err := range e.Errors {
		if err.Type == gin.ErrorTypePublic {
			public = append(public, err.Err)
		}
	}
	return public
}
