package api

import (
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RequestLogger logs every request through log.
func RequestLogger(log hclog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"remote_ip", v.RemoteIP,
			}
			if v.RequestID != "" {
				args = append(args, "request_id", v.RequestID)
			}
			switch {
			case v.Error != nil:
				log.Error("request failed", append(args, "error", v.Error.Error())...)
			case v.Status >= 500:
				log.Warn("request", args...)
			default:
				log.Info("request", args...)
			}
			return nil
		},
	})
}

// ValidateContentType middleware ensures that requests with a body have the correct Content-Type
func ValidateContentType(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		method := c.Request().Method

		// Only check POST, PUT, PATCH requests
		if method == "POST" || method == "PUT" || method == "PATCH" {
			contentType := c.Request().Header.Get("Content-Type")

			// Allow empty body for some requests
			if c.Request().ContentLength == 0 {
				return next(c)
			}

			if !strings.HasPrefix(contentType, "application/json") {
				return BadRequestError(
					"Invalid Content-Type",
					"Content-Type must be 'application/json'. Got: "+contentType,
				)
			}
		}

		return next(c)
	}
}

// ValidateAcceptHeader middleware ensures that clients can accept JSON responses
func ValidateAcceptHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accept := c.Request().Header.Get("Accept")

		// If no Accept header, assume */*
		if accept == "" {
			return next(c)
		}

		if !strings.Contains(accept, "application/json") &&
			!strings.Contains(accept, "*/*") &&
			!strings.Contains(accept, "application/*") {
			return BadRequestError(
				"Invalid Accept header",
				"API only returns JSON. Accept header must include 'application/json' or '*/*'. Got: "+accept,
			)
		}

		return next(c)
	}
}

// ValidateCategoryParam middleware validates the :category path segment
func ValidateCategoryParam(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		category := c.Param("category")

		// If no category param, skip validation
		if category == "" {
			return next(c)
		}

		if err := checkFolderName(category); err != nil {
			return err
		}

		return next(c)
	}
}

// ValidateQueryParams middleware validates the folder query parameter
func ValidateQueryParams(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// limit and offset are lenient: parsePagination falls back to defaults

		if folder := strings.TrimSpace(c.QueryParam("folder")); folder != "" {
			if err := checkFolderName(strings.Trim(folder, "/")); err != nil {
				return err
			}
		}

		return next(c)
	}
}

// checkFolderName rejects names that could escape the media host folder.
func checkFolderName(name string) *APIError {
	if strings.Contains(name, "..") {
		return BadRequestError("Invalid folder", "Folder cannot contain '..'")
	}
	if strings.ContainsAny(name, "\\?#") {
		return BadRequestError("Invalid folder", "Folder contains invalid characters")
	}
	if len(name) > 256 {
		return BadRequestError("Invalid folder", "Folder must not exceed 256 characters")
	}
	return nil
}

// SecurityHeaders middleware adds security headers to responses
func SecurityHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Add security headers
		c.Response().Header().Set("X-Content-Type-Options", "nosniff")
		c.Response().Header().Set("X-Frame-Options", "DENY")
		c.Response().Header().Set("X-XSS-Protection", "1; mode=block")
		c.Response().Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		return next(c)
	}
}
