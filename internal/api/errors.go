package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"

	"evalgo.org/darkroom/internal/imagehost"
)

// APIError is the JSON error body of every /api route.
type APIError struct {
	Code       int                    `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	FieldError map[string]string      `json:"field_errors,omitempty"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// BadRequestError rejects a malformed request.
func BadRequestError(message, details string) *APIError {
	return &APIError{Code: http.StatusBadRequest, Message: message, Details: details}
}

// NotFoundError reports an unknown resource, e.g. NotFoundError("Category", slug).
func NotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Context: map[string]interface{}{"id": id},
	}
}

// ValidationError carries per-field messages from a failed form validation.
func ValidationError(message string, fieldErrors map[string]string) *APIError {
	return &APIError{
		Code:       http.StatusBadRequest,
		Message:    message,
		FieldError: fieldErrors,
	}
}

// BadGatewayError reports a failure of an external service: the media host,
// the listing endpoint or the mail provider. The details are the message the
// service gave, when there is one.
func BadGatewayError(message string, err error) *APIError {
	return &APIError{
		Code:    http.StatusBadGateway,
		Message: message,
		Details: upstreamDetails(err),
	}
}

func upstreamDetails(err error) string {
	if err == nil {
		return ""
	}
	var upstream *imagehost.UpstreamError
	if errors.As(err, &upstream) && upstream.Message != "" {
		return upstream.Message
	}
	var failed *imagehost.FetchFailed
	if errors.As(err, &failed) && failed.Message != "" {
		return failed.Message
	}
	return err.Error()
}

// writeError sends err as an APIError. Server errors are logged, and their
// details are hidden unless echo runs in debug mode.
func writeError(c echo.Context, err error, log hclog.Logger) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &he):
		apiErr = &APIError{
			Code:    he.Code,
			Message: statusMessage(he.Code),
			Details: fmt.Sprintf("%v", he.Message),
		}
	default:
		apiErr = &APIError{
			Code:    http.StatusInternalServerError,
			Message: statusMessage(http.StatusInternalServerError),
			Details: err.Error(),
		}
	}

	if apiErr.Code >= http.StatusInternalServerError {
		log.Error("request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", apiErr.Code,
			"error", err)
		if apiErr.Code == http.StatusInternalServerError && !c.Echo().Debug {
			apiErr = &APIError{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: "An internal error occurred. Please try again later.",
			}
		}
	}

	if err := c.JSON(apiErr.Code, apiErr); err != nil {
		log.Error("failed to write error response", "error", err)
	}
}

// statusMessage returns the message used for framework errors.
func statusMessage(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "Bad request"
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusMethodNotAllowed:
		return "Method not allowed"
	case http.StatusNotAcceptable:
		return "Not acceptable"
	case http.StatusUnsupportedMediaType:
		return "Unsupported media type"
	case http.StatusTooManyRequests:
		return "Too many requests"
	case http.StatusInternalServerError:
		return "Internal server error"
	case http.StatusBadGateway:
		return "Bad gateway"
	}
	return http.StatusText(code)
}
