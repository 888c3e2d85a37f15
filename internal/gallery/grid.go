package gallery

import (
	"evalgo.org/darkroom/internal/imagehost"
	"evalgo.org/darkroom/models"
)

// Tile is one activatable grid item.
type Tile struct {
	Identifier   string
	DisplayIndex int
	Title        string
	AltText      string
	ImageURL     string // grid-sized rendition
	ThumbnailURL string // strip-sized rendition
	FullURL      string
	Width        int
	Height       int
}

func newTile(img models.ImageDescriptor) Tile {
	return Tile{
		Identifier:   img.Identifier,
		DisplayIndex: img.DisplayIndex,
		Title:        img.Title,
		AltText:      img.AltText,
		ImageURL:     imagehost.GridURL(img.SourceURL),
		ThumbnailURL: imagehost.ThumbnailURL(img.SourceURL),
		FullURL:      img.SourceURL,
		Width:        img.Width,
		Height:       img.Height,
	}
}

// Grid renders a collection as tiles and forwards activation to the controller.
type Grid struct {
	ctrl      *Controller
	preloader Preloader
}

// NewGrid creates a grid over ctrl's collection. Hover preloads go through
// preloader, which should be shared with the controller so requests dedupe.
func NewGrid(ctrl *Controller, preloader Preloader) *Grid {
	if preloader == nil {
		preloader = noopPreloader{}
	}
	return &Grid{ctrl: ctrl, preloader: preloader}
}

// Tiles returns one tile per image in display order.
func (g *Grid) Tiles() []Tile {
	items := g.ctrl.Collection().Items()
	tiles := make([]Tile, len(items))
	for i, img := range items {
		tiles[i] = newTile(img)
	}
	return tiles
}

// Activate opens the lightbox at id, as a tile click does.
func (g *Grid) Activate(id string) bool {
	return g.ctrl.OpenAt(id)
}

// Hover preloads the full image behind a tile. Failures are ignored.
func (g *Grid) Hover(id string) {
	if !g.ctrl.Mounted() {
		return
	}
	img, ok := g.ctrl.Collection().Get(id)
	if !ok {
		return
	}
	g.preloader.Preload(img.SourceURL, nil)
}
