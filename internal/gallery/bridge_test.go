package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPage(t *testing.T, rawURL string, ids ...string) (*Page, *MemoryHistory, *Keyboard, *BodyLock) {
	t.Helper()
	history := NewMemoryHistory(mustURL(t, rawURL))
	kb := NewKeyboard()
	lock := &BodyLock{}
	page := NewPage(testCollection(t, ids...), Options{
		History:    history,
		Keyboard:   kb,
		ScrollLock: lock,
	})
	page.Mount()
	t.Cleanup(page.Unmount)
	return page, history, kb, lock
}

func focusOf(h *MemoryHistory) (string, bool) {
	q := h.Location().Query()
	_, present := q[DefaultFocusParam]
	return q.Get(DefaultFocusParam), present
}

func TestBridge_MountWithKnownFocus(t *testing.T) {
	page, history, _, lock := newTestPage(t, "/portfolio/family?focus=b", "a", "b", "c")

	assert.Equal(t, "b", focused(page.Controller))
	assert.True(t, lock.Locked())
	assert.Equal(t, 1, history.Len())
	assert.Equal(t, "/portfolio/family?focus=b", history.Location().String())
}

func TestBridge_MountWithStaleFocus(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"unknown id", "/portfolio/family?focus=zzz&sort=new", "/portfolio/family?sort=new"},
		{"empty value", "/portfolio/family?focus=", "/portfolio/family"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, history, _, lock := newTestPage(t, tt.raw, "a", "b", "c")

			assert.False(t, page.Controller.State().Open)
			assert.False(t, lock.Locked())
			assert.Equal(t, 1, history.Len(), "stale parameter is dropped with a replace")
			assert.Equal(t, tt.want, history.Location().String())
		})
	}
}

func TestBridge_MountWithoutFocus(t *testing.T) {
	page, history, _, _ := newTestPage(t, "/portfolio/family", "a", "b")

	assert.False(t, page.Controller.State().Open)
	assert.Equal(t, "/portfolio/family", history.Location().String())
}

func TestBridge_ConcreteScenario(t *testing.T) {
	page, history, kb, lock := newTestPage(t, "/portfolio/family", "a", "b", "c")

	require.True(t, page.Grid.Activate("b"))
	assert.Equal(t, "b", focused(page.Controller))
	id, _ := focusOf(history)
	assert.Equal(t, "b", id)

	kb.Dispatch(KeyArrowRight)
	assert.Equal(t, "c", focused(page.Controller))
	id, _ = focusOf(history)
	assert.Equal(t, "c", id)

	kb.Dispatch(KeyArrowRight)
	assert.Equal(t, "a", focused(page.Controller))
	id, _ = focusOf(history)
	assert.Equal(t, "a", id)

	kb.Dispatch(KeyEscape)
	assert.False(t, page.Controller.State().Open)
	_, present := focusOf(history)
	assert.False(t, present)
	assert.False(t, lock.Locked())

	assert.Equal(t, 2, history.Len(), "only the activation pushed an entry")
}

func TestBridge_URLRoundTrip(t *testing.T) {
	page, history, _, _ := newTestPage(t, "/portfolio/family?focus=b", "a", "b", "c")
	require.Equal(t, "b", focused(page.Controller))

	require.True(t, page.Controller.Close())
	_, present := focusOf(history)
	assert.False(t, present)
	assert.Equal(t, 1, history.Len())

	require.True(t, page.Grid.Activate("c"))
	id, _ := focusOf(history)
	assert.Equal(t, "c", id)
	assert.Equal(t, 2, history.Len())

	require.True(t, history.Back())
	assert.False(t, page.Controller.State().Open, "back closes the lightbox")
	_, present = focusOf(history)
	assert.False(t, present)

	require.True(t, history.Forward())
	assert.Equal(t, "c", focused(page.Controller), "forward reopens it")
	assert.Equal(t, 2, history.Len(), "restores never write history")
}

func TestBridge_BackAfterNavigation(t *testing.T) {
	page, history, kb, _ := newTestPage(t, "/portfolio/family", "a", "b", "c")

	page.Grid.Activate("a")
	kb.Dispatch(KeyArrowRight)
	kb.Dispatch(KeyArrowRight)
	require.Equal(t, "c", focused(page.Controller))

	require.True(t, history.Back())
	assert.False(t, page.Controller.State().Open)
	assert.Equal(t, "/portfolio/family", history.Location().String())
}

func TestBridge_PopToStaleEntry(t *testing.T) {
	page, history, _, _ := newTestPage(t, "/portfolio/family", "a", "b")

	history.Push(mustURL(t, "/portfolio/family?focus=gone"))
	history.Push(mustURL(t, "/portfolio/family?focus=a"))
	require.True(t, history.Back())

	assert.False(t, page.Controller.State().Open)
	assert.Equal(t, "/portfolio/family", history.Location().String())
}

func TestBridge_Unmount(t *testing.T) {
	page, history, kb, lock := newTestPage(t, "/portfolio/family?focus=a", "a", "b")
	require.Equal(t, 1, history.Listeners())

	page.Unmount()
	assert.Equal(t, 0, history.Listeners())
	assert.Equal(t, 0, kb.Listeners())
	assert.False(t, lock.Locked())

	history.Push(mustURL(t, "/portfolio/family?focus=b"))
	history.Back()
	assert.Equal(t, "a", focused(page.Controller), "no sync after unmount")
}

func TestBridge_CustomParam(t *testing.T) {
	history := NewMemoryHistory(mustURL(t, "/portfolio/family?fileId=b"))
	page := NewPage(testCollection(t, "a", "b"), Options{History: history, Param: "fileId"})
	page.Mount()
	defer page.Unmount()

	assert.Equal(t, "fileId", page.Bridge.Param())
	assert.Equal(t, "b", focused(page.Controller))

	page.Controller.Next()
	assert.Equal(t, "/portfolio/family?fileId=a", history.Location().String())
}

func TestBridge_URLFor(t *testing.T) {
	b := NewBridge(nil, nil, "")
	u := mustURL(t, "https://example.com/portfolio/family?page=2")

	assert.Equal(t, "https://example.com/portfolio/family?focus=x&page=2", b.URLFor(u, "x").String())
	assert.Equal(t, "https://example.com/portfolio/family?page=2", b.URLFor(b.URLFor(u, "x"), "").String())
	assert.Equal(t, "https://example.com/portfolio/family?page=2", u.String(), "input is not modified")
}
