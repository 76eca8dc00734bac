package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HTTPError pairs an HTTP status with the error envelope fields the
// middleware serializes.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// NewHTTPError builds an HTTPError around an optional cause.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// asHTTPError normalizes any error into an HTTPError. Errors the handlers
// did not classify come out as opaque 500s; the cause stays server-side.
func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return NewHTTPError(http.StatusInternalServerError, "internal_error", "internal server error", err)
}

// abortWithError records the error for the envelope middleware and stops
// the handler chain.
func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
