package http

import (
	"errors"
	"net/http"

	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Stable error codes of the HTTP surface.
const (
	CodeValidationFailed  = "validation_failed"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
	CodeConflict          = "conflict"
	CodeInvalidTransition = "invalid_transition"
	CodeRateLimited       = "rate_limited"
	CodeTimeout           = "timeout"
	CodeInternal          = "internal"
)

// errUnauthorized is returned when the bearer token is missing or invalid.
var errUnauthorized = errors.New("authentication is required")

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// classify maps an error of the core to its HTTP status and code. Timeouts are
// checked first because a TimeoutError also carries its cause.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrTimeout):
		return http.StatusGatewayTimeout, CodeTimeout
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized
	case errs.IsValidation(err):
		return http.StatusBadRequest, CodeValidationFailed
	case errors.Is(err, errs.ErrActionIsForbidden):
		return http.StatusForbidden, CodeForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, errs.ErrTransitionIsInvalid):
		return http.StatusUnprocessableEntity, CodeInvalidTransition
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// codeForStatus names the errors echo raises itself (routing, binding, limits).
func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return CodeValidationFailed
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return CodeNotFound
	case http.StatusTooManyRequests:
		return CodeRateLimited
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return CodeTimeout
	default:
		return CodeInternal
	}
}

// fail writes err as an ErrorResponse. Internal errors are logged and their
// details withheld from the caller.
func (s *Server) fail(c echo.Context, err error) error {
	status, code := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "Request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		message = "internal error"
	}
	return c.JSON(status, ErrorResponse{Code: code, Message: message})
}

// httpErrorHandler renders errors that escaped the handlers in the same shape.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			message = m
		}
		_ = c.JSON(he.Code, ErrorResponse{Code: codeForStatus(he.Code), Message: message})
		return
	}

	_ = s.fail(c, err)
}
