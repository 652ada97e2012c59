package errs

// ErrorHandler receives the errors of one unit of work. Public errors are shown
// to the client, private ones are only logged.
type ErrorHandler interface {
	RenderError(err error)
	PublicError(statusCode int, err error)
	PrivateError(err error)
}
