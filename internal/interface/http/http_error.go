package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/jungle-board/pkg/errors"
)

// statusClientClosed is reported when the caller went away before the result was ready.
const statusClientClosed = 499

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
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

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

// fromDomainError maps service error codes onto HTTP statuses.
func fromDomainError(err error) *HTTPError {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewHTTPError(statusClientClosed, "request_cancelled", "request cancelled", err)
	}
	code := apperrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperrors.CodeUnauthorized:
		status = http.StatusUnauthorized
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeAPIError:
		status = http.StatusBadGateway
	case "":
		code = "internal_error"
	}
	message := apperrors.MessageOf(err)
	if status == http.StatusInternalServerError && code == "internal_error" {
		message = "something went wrong"
	}
	return NewHTTPError(status, code, message, err)
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func abortWithDomainError(c *gin.Context, err error) {
	abortWithError(c, fromDomainError(err))
}
