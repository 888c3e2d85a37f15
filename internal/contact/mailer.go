package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"evalgo.org/darkroom/internal/config"
	"evalgo.org/darkroom/internal/logging"
)

// Email is a message accepted by the Resend API.
type Email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// SendError is an error response from the mail provider.
type SendError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

func (e *SendError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("mail provider returned %d (%s): %s", e.StatusCode, e.Name, e.Message)
	}
	return fmt.Sprintf("mail provider returned %d: %s", e.StatusCode, e.Message)
}

type sendResponse struct {
	ID string `json:"id"`
}

// Mailer sends email through Resend.
type Mailer struct {
	client *resty.Client
	from   string
	to     string
	log    hclog.Logger
}

// NewMailer creates a mailer from configuration.
func NewMailer(cfg config.MailConfig, log hclog.Logger) *Mailer {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &Mailer{
		client: client,
		from:   cfg.From,
		to:     cfg.To,
		log:    logging.OrDiscard(log).Named("mailer"),
	}
}

// Send delivers email and returns the provider's message id. Empty From and
// To fall back to the configured addresses.
func (m *Mailer) Send(ctx context.Context, email Email) (string, error) {
	if email.From == "" {
		email.From = m.from
	}
	if len(email.To) == 0 {
		if m.to == "" {
			return "", fmt.Errorf("no recipient configured")
		}
		email.To = []string{m.to}
	}

	var out sendResponse
	var apiErr SendError
	resp, err := m.client.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetBody(email).
		SetResult(&out).
		SetError(&apiErr).
		Post("/emails")
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	if resp.IsError() {
		if apiErr.StatusCode == 0 {
			apiErr.StatusCode = resp.StatusCode()
		}
		if apiErr.Message == "" {
			apiErr.Message = resp.Status()
		}
		return "", &apiErr
	}

	m.log.Info("email sent", "id", out.ID, "subject", email.Subject)
	return out.ID, nil
}
