package gallery

// LightboxView is what an open lightbox displays.
type LightboxView struct {
	Current    Tile
	Position   int // 1-based
	Total      int
	Previous   string
	Next       string
	Thumbnails []Tile
}

// Lightbox returns the view for the focused image; ok is false when closed.
func (c *Controller) Lightbox() (view LightboxView, ok bool) {
	id, open := c.Focused()
	if !open {
		return LightboxView{}, false
	}
	img, found := c.collection.Get(id)
	if !found {
		return LightboxView{}, false
	}

	view = LightboxView{
		Current:  newTile(img),
		Position: img.DisplayIndex + 1,
		Total:    c.collection.Len(),
	}
	view.Previous, view.Next, _ = c.collection.Neighbors(id)

	items := c.collection.Items()
	view.Thumbnails = make([]Tile, len(items))
	for i, it := range items {
		view.Thumbnails[i] = newTile(it)
	}
	return view, true
}
