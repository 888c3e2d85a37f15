package commands

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/darkroom/internal/config"
	"evalgo.org/darkroom/models"
)

func testCollection(t *testing.T, n int) *models.Collection {
	t.Helper()
	items := make([]models.ImageDescriptor, n)
	for i := range items {
		id := string(rune('a' + i))
		items[i] = models.ImageDescriptor{
			Identifier: id,
			SourceURL:  "https://ik.imagekit.io/demo/family/" + id + ".jpg",
		}
	}
	coll, err := models.NewCollection("family", items)
	require.NoError(t, err)
	return coll
}

func TestWalkCollection(t *testing.T) {
	var out bytes.Buffer
	base := &url.URL{Path: "/portfolio/family"}

	report := walkCollection(&out, testCollection(t, 3), base, walkOptions{Param: "focus"})

	// activate, three steps with wrap-around, back, forward, escape
	assert.Equal(t, 7, report.Transitions)
	assert.Equal(t, 2, report.LockAcquired)
	assert.Equal(t, 2, report.LockReleased)
	assert.Equal(t, 2, report.HistoryLen)
	assert.Equal(t, "/portfolio/family", report.Final.String())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[0], "activate")
	assert.Contains(t, lines[0], "/portfolio/family?focus=a")
	assert.Contains(t, lines[3], "/portfolio/family?focus=a")
	assert.Contains(t, lines[4], "restore")
	assert.Contains(t, lines[5], "restore")
	assert.Contains(t, lines[6], "close")
}

func TestWalkCollection_Steps(t *testing.T) {
	var out bytes.Buffer
	base := &url.URL{Path: "/portfolio/family"}

	report := walkCollection(&out, testCollection(t, 5), base, walkOptions{Steps: 2, Param: "focus"})

	assert.Equal(t, 6, report.Transitions)
	assert.Contains(t, out.String(), "focus=c")
	assert.NotContains(t, out.String(), "focus=d")
}

func TestWalkCollection_TransitionWindow(t *testing.T) {
	var out bytes.Buffer
	base := &url.URL{Path: "/portfolio/family"}

	report := walkCollection(&out, testCollection(t, 3), base, walkOptions{
		Param:            "focus",
		TransitionWindow: time.Hour,
	})

	// the opening window only debounces repeated opens, never navigation
	assert.Equal(t, 7, report.Transitions)
	assert.Equal(t, 2, report.LockAcquired)
	assert.Equal(t, 2, report.LockReleased)
	assert.Equal(t, "/portfolio/family", report.Final.String())
}

func TestWalkCollection_Empty(t *testing.T) {
	var out bytes.Buffer

	report := walkCollection(&out, models.EmptyCollection("family"), &url.URL{Path: "/portfolio/family"}, walkOptions{})

	assert.Zero(t, report.Transitions)
	assert.Zero(t, report.LockAcquired)
	assert.Contains(t, out.String(), `collection "family" is empty`)
}

func TestPrintCollection(t *testing.T) {
	coll := testCollection(t, 2)

	tests := []struct {
		format string
		want   []string
	}{
		{"table", []string{"ID", "Image 1", "https://ik.imagekit.io/demo/family/b.jpg", "Total: 2 images"}},
		{"json", []string{`"id": "a"`, `"displayIndex": 1`}},
		{"yaml", []string{"identifier: a", "title: Image 2"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, printCollection(&out, coll, tt.format))
			for _, want := range tt.want {
				assert.Contains(t, out.String(), want)
			}
		})
	}

	var out bytes.Buffer
	assert.Error(t, printCollection(&out, coll, "xml"))
}

func TestRedacted(t *testing.T) {
	c := &config.Config{}
	c.Mail.APIKey = "re_secret"

	r := redacted(c)

	assert.Equal(t, "********", r.Mail.APIKey)
	assert.Empty(t, r.ImageKit.PrivateKey)
	assert.Equal(t, "re_secret", c.Mail.APIKey, "original untouched")
}
