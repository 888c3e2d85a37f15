package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"evalgo.org/darkroom/internal/contact"
	"evalgo.org/darkroom/internal/validation"
)

// submitContact relays a contact form submission by email.
// POST /api/contact
func (s *Server) submitContact(c echo.Context) error {
	var req contact.Request
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	}

	id, err := s.contact.Submit(c.Request().Context(), req, c.RealIP())
	if err != nil {
		var invalid *validation.ValidationResult
		if errors.As(err, &invalid) {
			return ValidationError("Validation failed", invalid.FieldErrors())
		}

		var captcha *contact.CaptchaError
		if errors.As(err, &captcha) {
			return c.JSON(http.StatusBadRequest, ContactResponse{
				Success: false,
				Error:   "Captcha failed",
				Details: captcha.Result,
			})
		}

		return BadGatewayError("Failed to send message", err)
	}

	return c.JSON(http.StatusOK, ContactResponse{Success: true, ID: id})
}
