package logging

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"evalgo.org/darkroom/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want hclog.Level
	}{
		{"debug", hclog.Debug},
		{"WARN", hclog.Warn},
		{"error", hclog.Error},
		{"", hclog.Info},
		{"chatty", hclog.Info},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	l := New(config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"})
	assert.True(t, l.IsDebug())
	assert.Equal(t, "darkroom", l.Name())
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))
	l := Discard()
	assert.Equal(t, l, OrDiscard(l))
}
