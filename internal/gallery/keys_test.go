package gallery

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		key     Key
		binding key.Binding
		want    bool
	}{
		{KeyEscape, km.Close, true},
		{Key("esc"), km.Close, true},
		{KeyArrowLeft, km.Previous, true},
		{KeyArrowRight, km.Next, true},
		{Key("right"), km.Next, true},
		{KeyArrowLeft, km.Next, false},
		{Key("Enter"), km.Close, false},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, key.Matches(tt.key, tt.binding))
		})
	}

	assert.Len(t, km.Bindings(), 3)
	assert.Equal(t, "close", km.Close.Help().Desc)
}

func TestKeyboard_SubscribeDispatch(t *testing.T) {
	kb := NewKeyboard()

	var first, second []Key
	s1 := kb.Subscribe(func(k Key) bool { first = append(first, k); return true })
	s2 := kb.Subscribe(func(k Key) bool { second = append(second, k); return false })
	assert.Equal(t, 2, kb.Listeners())

	assert.True(t, kb.Dispatch(KeyEscape))
	s1.Unsubscribe()
	s1.Unsubscribe()
	assert.False(t, kb.Dispatch(KeyArrowLeft))

	assert.Equal(t, []Key{KeyEscape}, first)
	assert.Equal(t, []Key{KeyEscape, KeyArrowLeft}, second)

	s2.Unsubscribe()
	assert.Equal(t, 0, kb.Listeners())

	var nilSub *Subscription
	assert.NotPanics(t, nilSub.Unsubscribe)
}

func TestKeyboard_HandlerMayUnsubscribe(t *testing.T) {
	kb := NewKeyboard()

	var sub *Subscription
	calls := 0
	sub = kb.Subscribe(func(Key) bool {
		calls++
		sub.Unsubscribe()
		return true
	})

	assert.True(t, kb.Dispatch(KeyEscape))
	assert.False(t, kb.Dispatch(KeyEscape))
	assert.Equal(t, 1, calls)
}
