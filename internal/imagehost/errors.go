package imagehost

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FetchFailed reports that a collection listing could not be retrieved.
type FetchFailed struct {
	Collection string
	StatusCode int // 0 when the request never got a response
	Message    string
	Err        error
}

func (e *FetchFailed) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fetch collection %q failed", e.Collection)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FetchFailed) Unwrap() error {
	return e.Err
}

// UpstreamError is a failure reported by the media host API.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return "media host: " + e.Message
	}
	return fmt.Sprintf("media host returned %d: %s", e.StatusCode, e.Message)
}

// errorMessage extracts a human readable message from an error body. It
// understands {"error": ...}, {"message": ...} and {"details": ...} shapes.
func errorMessage(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"details", "error", "message"} {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
