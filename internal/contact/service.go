// Package contact relays contact form submissions: the request is validated,
// the reCAPTCHA token verified, and the message forwarded by email.
package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"evalgo.org/darkroom/internal/logging"
	"evalgo.org/darkroom/internal/validation"
)

// Request is a contact form submission.
type Request struct {
	Name    string `json:"name" form:"name" validate:"required,max=200"`
	Email   string `json:"email" form:"email" validate:"required,email,max=320"`
	Message string `json:"message" form:"message" validate:"required,max=5000"`
	Token   string `json:"token" form:"token" validate:"required"`
}

// CaptchaVerifier checks bot verification tokens.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (*VerifyResult, error)
}

// Sender delivers email.
type Sender interface {
	Send(ctx context.Context, email Email) (string, error)
}

// Service handles contact submissions.
type Service struct {
	verifier  CaptchaVerifier
	sender    Sender
	validator *validation.Validator
	log       hclog.Logger
}

// NewService creates a contact service.
func NewService(verifier CaptchaVerifier, sender Sender, log hclog.Logger) *Service {
	return &Service{
		verifier:  verifier,
		sender:    sender,
		validator: validation.New(),
		log:       logging.OrDiscard(log).Named("contact"),
	}
}

// Submit validates req, verifies its token and sends the message. Invalid
// requests return *validation.ValidationResult and rejected tokens return
// *CaptchaError; nothing is sent in either case.
func (s *Service) Submit(ctx context.Context, req Request, remoteIP string) (string, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if result := s.validator.ValidateStruct(req); !result.Valid {
		return "", result
	}

	if _, err := s.verifier.Verify(ctx, req.Token, remoteIP); err != nil {
		return "", err
	}

	id, err := s.sender.Send(ctx, Compose(req))
	if err != nil {
		s.log.Error("failed to relay contact message", "error", err)
		return "", err
	}
	s.log.Info("contact message relayed", "id", id)
	return id, nil
}

// Compose builds the notification email for req.
func Compose(req Request) Email {
	return Email{
		Subject: fmt.Sprintf("New message from %s", req.Name),
		Text:    fmt.Sprintf("Name: %s\nEmail: %s\nMessage: %s", req.Name, req.Email, req.Message),
		ReplyTo: req.Email,
	}
}
