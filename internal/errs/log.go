package errs

import "log/slog"

// LogErrorHandler logs every error and forwards public ones to a callback,
// for work that has no HTTP response to attach errors to.
type LogErrorHandler struct {
	title              string
	logger             *slog.Logger
	publicErrorHandler func(err error) error
}

func NewLogErrorHandler(logger *slog.Logger, title string, publicErrorHandler func(err error) error) *LogErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogErrorHandler{title: title, logger: logger, publicErrorHandler: publicErrorHandler}
}

func (e *LogErrorHandler) RenderError(err error) {
	e.logger.Warn("Render error", "title", e.title, "err", err)
}

func (e *LogErrorHandler) PublicError(statusCode int, err error) {
	e.logger.Warn("Public error", "title", e.title, "status", statusCode, "err", err)
	if e.publicErrorHandler == nil {
		return
	}
	if handleErr := e.publicErrorHandler(err); handleErr != nil {
		e.logger.Warn("Error handling public error while "+e.title, "err", err, "handleErr", handleErr)
	}
}

func (e *LogErrorHandler) PrivateError(err error) {
	e.logger.Warn("Private error", "title", e.title, "err", err)
}
