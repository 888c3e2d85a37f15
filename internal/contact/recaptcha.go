package contact

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"evalgo.org/darkroom/internal/config"
	"evalgo.org/darkroom/internal/logging"
)

// VerifyResult is the siteverify response.
type VerifyResult struct {
	Success     bool     `json:"success"`
	Score       *float64 `json:"score,omitempty"`
	Action      string   `json:"action,omitempty"`
	Hostname    string   `json:"hostname,omitempty"`
	ChallengeTS string   `json:"challenge_ts,omitempty"`
	ErrorCodes  []string `json:"error-codes,omitempty"`
}

// CaptchaError reports a token that the verification service rejected.
type CaptchaError struct {
	Result *VerifyResult
	Reason string
}

func (e *CaptchaError) Error() string {
	return "captcha failed: " + e.Reason
}

// Verifier checks reCAPTCHA tokens.
type Verifier struct {
	client   *resty.Client
	url      string
	secret   string
	minScore float64
	log      hclog.Logger
}

// NewVerifier creates a verifier from configuration.
func NewVerifier(cfg config.RecaptchaConfig, log hclog.Logger) *Verifier {
	client := resty.New()
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &Verifier{
		client:   client,
		url:      cfg.VerifyURL,
		secret:   cfg.SecretKey,
		minScore: cfg.MinScore,
		log:      logging.OrDiscard(log).Named("recaptcha"),
	}
}

// Verify validates token. It returns *CaptchaError when the service reports
// failure or a score below the configured minimum.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) (*VerifyResult, error) {
	form := map[string]string{
		"secret":   v.secret,
		"response": token,
	}
	if remoteIP != "" {
		form["remoteip"] = remoteIP
	}

	var result VerifyResult
	resp, err := v.client.R().
		SetContext(ctx).
		SetFormData(form).
		ForceContentType("application/json").
		SetResult(&result).
		Post(v.url)
	if err != nil {
		return nil, fmt.Errorf("captcha verification request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("captcha verification returned %s", resp.Status())
	}

	if !result.Success {
		v.log.Warn("captcha rejected", "error_codes", result.ErrorCodes)
		return &result, &CaptchaError{Result: &result, Reason: "verification unsuccessful"}
	}
	if result.Score != nil && *result.Score < v.minScore {
		v.log.Warn("captcha score too low", "score", *result.Score, "min_score", v.minScore)
		return &result, &CaptchaError{
			Result: &result,
			Reason: fmt.Sprintf("score %.2f below %.2f", *result.Score, v.minScore),
		}
	}
	return &result, nil
}
