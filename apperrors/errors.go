package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"gin-marketplace/constants"
	"gin-marketplace/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindUnhandled Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindBadRequest
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindBadRequest:
		return "bad_request"
	case KindConflict:
		return "conflict"
	default:
		return "unhandled"
	}
}

// Status returns the HTTP status used when an error of this kind reaches the fault boundary.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application error carrying its kind and a user-facing message.
type Error struct {
	Kind    Kind              `json:"-"`
	Message string            `json:"error"`
	Fields  map[string]string `json:"errors,omitempty"`
	Err     error             `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation error", Fields: fields}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message, nil)
}

func BadRequest(message string, err error) *Error {
	return New(KindBadRequest, message, err)
}

func Conflict(message string, err error) *Error {
	return New(KindConflict, message, err)
}

// KindOf reports the kind of err, or KindUnhandled when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnhandled
}

// Message returns the user-facing message of err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return constants.ErrUnexpected
}

// ErrorMiddleware is the generic fault boundary. Handlers and guards hand it errors through
// ctx.Error; anything that is not a known application error becomes a 500.
func ErrorMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if len(ctx.Errors) == 0 || ctx.Writer.Written() {
			return
		}

		err := ctx.Errors.Last().Err
		kind := KindOf(err)
		if kind == KindUnhandled {
			logger.Error(ctx, "Unhandled request error", err, zap.String("path", ctx.Request.URL.Path))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": constants.ErrUnexpected})
			return
		}

		logger.Warn(ctx, "Request failed", zap.String("kind", kind.String()), zap.Error(err))
		var appErr *Error
		errors.As(err, &appErr)
		ctx.JSON(kind.Status(), appErr)
	}
}
