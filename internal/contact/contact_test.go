package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/darkroom/internal/config"
	"evalgo.org/darkroom/internal/validation"
)

func recaptchaServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "secret-key", r.PostForm.Get("secret"))
		assert.Equal(t, "tok", r.PostForm.Get("response"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestVerifier(url string) *Verifier {
	return NewVerifier(config.RecaptchaConfig{VerifyURL: url, SecretKey: "secret-key", MinScore: 0.5}, nil)
}

func TestVerifier(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantCaptcha bool
	}{
		{"success without score", `{"success":true}`, false},
		{"success with high score", `{"success":true,"score":0.9}`, false},
		{"score exactly at minimum", `{"success":true,"score":0.5}`, false},
		{"low score", `{"success":true,"score":0.3}`, true},
		{"unsuccessful", `{"success":false,"error-codes":["invalid-input-response"]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := recaptchaServer(t, tt.body)
			result, err := newTestVerifier(srv.URL).Verify(context.Background(), "tok", "")
			require.NotNil(t, result)

			var ce *CaptchaError
			assert.Equal(t, tt.wantCaptcha, errors.As(err, &ce))
			if !tt.wantCaptcha {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifier_ServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestVerifier(srv.URL).Verify(context.Background(), "tok", "")
	require.Error(t, err)
	var ce *CaptchaError
	assert.False(t, errors.As(err, &ce))
}

func TestMailer_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		var email Email
		require.NoError(t, json.NewDecoder(r.Body).Decode(&email))
		assert.Equal(t, "onboarding@resend.dev", email.From)
		assert.Equal(t, []string{"studio@example.com"}, email.To)
		assert.Equal(t, "New message from Ada", email.Subject)
		assert.Equal(t, "ada@example.com", email.ReplyTo)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	m := NewMailer(config.MailConfig{
		APIURL: srv.URL,
		APIKey: "re_test",
		From:   "onboarding@resend.dev",
		To:     "studio@example.com",
	}, nil)

	id, err := m.Send(context.Background(), Compose(Request{Name: "Ada", Email: "ada@example.com", Message: "Hi"}))
	require.NoError(t, err)
	assert.Equal(t, "email_123", id)
}

func TestMailer_SendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`))
	}))
	defer srv.Close()

	m := NewMailer(config.MailConfig{APIURL: srv.URL, To: "studio@example.com"}, nil)
	_, err := m.Send(context.Background(), Email{Subject: "x"})

	var se *SendError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 422, se.StatusCode)
	assert.Equal(t, "Invalid to field", se.Message)
}

func TestMailer_NoRecipient(t *testing.T) {
	m := NewMailer(config.MailConfig{APIURL: "http://127.0.0.1:1"}, nil)
	_, err := m.Send(context.Background(), Email{Subject: "x"})
	assert.EqualError(t, err, "no recipient configured")
}

func TestCompose(t *testing.T) {
	email := Compose(Request{Name: "Ada", Email: "ada@example.com", Message: "Booking for May"})
	assert.Equal(t, "New message from Ada", email.Subject)
	assert.Equal(t, "Name: Ada\nEmail: ada@example.com\nMessage: Booking for May", email.Text)
	assert.Equal(t, "ada@example.com", email.ReplyTo)
}

type stubVerifier struct {
	err    error
	tokens []string
}

func (s *stubVerifier) Verify(_ context.Context, token, _ string) (*VerifyResult, error) {
	s.tokens = append(s.tokens, token)
	return &VerifyResult{Success: s.err == nil}, s.err
}

type stubSender struct {
	sent []Email
	err  error
}

func (s *stubSender) Send(_ context.Context, email Email) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, email)
	return "email_1", nil
}

func TestService_Submit(t *testing.T) {
	valid := Request{Name: " Ada ", Email: "ada@example.com", Message: "Hello", Token: "tok"}

	t.Run("success", func(t *testing.T) {
		v, s := &stubVerifier{}, &stubSender{}
		id, err := NewService(v, s, nil).Submit(context.Background(), valid, "203.0.113.7")
		require.NoError(t, err)
		assert.Equal(t, "email_1", id)
		require.Len(t, s.sent, 1)
		assert.Equal(t, "New message from Ada", s.sent[0].Subject)
		assert.Equal(t, []string{"tok"}, v.tokens)
	})

	t.Run("invalid request is not verified or sent", func(t *testing.T) {
		v, s := &stubVerifier{}, &stubSender{}
		req := valid
		req.Email = "nope"
		_, err := NewService(v, s, nil).Submit(context.Background(), req, "")

		var vr *validation.ValidationResult
		require.True(t, errors.As(err, &vr))
		assert.Contains(t, vr.FieldErrors(), "email")
		assert.Empty(t, v.tokens)
		assert.Empty(t, s.sent)
	})

	t.Run("captcha failure is not sent", func(t *testing.T) {
		v := &stubVerifier{err: &CaptchaError{Reason: "low score"}}
		s := &stubSender{}
		_, err := NewService(v, s, nil).Submit(context.Background(), valid, "")

		var ce *CaptchaError
		require.True(t, errors.As(err, &ce))
		assert.Empty(t, s.sent)
	})

	t.Run("send failure", func(t *testing.T) {
		s := &stubSender{err: &SendError{StatusCode: 500, Message: "down"}}
		_, err := NewService(&stubVerifier{}, s, nil).Submit(context.Background(), valid, "")
		var se *SendError
		assert.True(t, errors.As(err, &se))
	})
}
