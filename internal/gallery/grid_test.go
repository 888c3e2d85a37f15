package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid_Tiles(t *testing.T) {
	ctrl := NewController(testCollection(t, "a", "b", "c"), ControllerOptions{})
	tiles := NewGrid(ctrl, nil).Tiles()

	require.Len(t, tiles, 3)
	for i, tile := range tiles {
		assert.Equal(t, i, tile.DisplayIndex)
	}
	assert.Equal(t, "b", tiles[1].Identifier)
	assert.Equal(t, imageURL("b")+"?tr=w-700,q-80,fo-auto", tiles[1].ImageURL)
	assert.Equal(t, imageURL("b")+"?tr=w-128,q-80,fo-auto", tiles[1].ThumbnailURL)
	assert.Equal(t, imageURL("b"), tiles[1].FullURL)
	assert.Equal(t, "Image 2", tiles[1].AltText)
}

func TestGrid_Activate(t *testing.T) {
	lock := &BodyLock{}
	ctrl := NewController(testCollection(t, "a", "b"), ControllerOptions{ScrollLock: lock})
	grid := NewGrid(ctrl, nil)

	assert.False(t, grid.Activate("missing"))
	assert.False(t, lock.Locked())

	assert.True(t, grid.Activate("b"))
	assert.Equal(t, "b", focused(ctrl))
	assert.True(t, lock.Locked())
}

func TestGrid_Hover(t *testing.T) {
	p := &recordingPreloader{}
	ctrl := NewController(testCollection(t, "a", "b"), ControllerOptions{Preloader: p})
	grid := NewGrid(ctrl, p)

	grid.Hover("a")
	grid.Hover("missing")
	assert.Equal(t, []string{imageURL("a")}, p.requested())

	ctrl.Unmount()
	grid.Hover("b")
	assert.Equal(t, []string{imageURL("a")}, p.requested())
}

func TestGrid_EmptyCollection(t *testing.T) {
	page := NewPage(nil, Options{})
	page.Mount()
	defer page.Unmount()

	assert.Empty(t, page.Grid.Tiles())
	assert.Nil(t, page.Bridge)
	assert.False(t, page.Grid.Activate("a"))
}
