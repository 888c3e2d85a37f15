package models

import (
	"errors"
	"fmt"
)

// ErrDuplicateIdentifier is returned when a listing contains the same identifier twice.
var ErrDuplicateIdentifier = errors.New("duplicate image identifier")

// Collection is a named, ordered, immutable snapshot of images for one gallery page.
// The identifier index is built once so lookups by identifier are O(1).
type Collection struct {
	name  string
	items []ImageDescriptor
	index map[string]int
}

// NewCollection builds a collection from items in host order. DisplayIndex is
// reassigned so it always matches array order, and missing captions fall back
// to the placeholder title.
func NewCollection(name string, items []ImageDescriptor) (*Collection, error) {
	c := &Collection{
		name:  name,
		items: make([]ImageDescriptor, len(items)),
		index: make(map[string]int, len(items)),
	}

	for i, item := range items {
		if item.Identifier == "" {
			return nil, fmt.Errorf("image at position %d has no identifier", i)
		}
		if _, exists := c.index[item.Identifier]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIdentifier, item.Identifier)
		}

		item.DisplayIndex = i
		if item.Title == "" {
			item.Title = PlaceholderTitle(i)
		}
		if item.AltText == "" {
			item.AltText = item.Title
		}

		c.items[i] = item
		c.index[item.Identifier] = i
	}

	return c, nil
}

// EmptyCollection returns a collection with no images.
func EmptyCollection(name string) *Collection {
	return &Collection{name: name, index: map[string]int{}}
}

// Name returns the collection name the images were fetched for.
func (c *Collection) Name() string {
	return c.name
}

// Len returns the number of images.
func (c *Collection) Len() int {
	return len(c.items)
}

// At returns the image at position i.
func (c *Collection) At(i int) ImageDescriptor {
	return c.items[i]
}

// IndexOf returns the position of the image with the given identifier.
func (c *Collection) IndexOf(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// Contains reports whether id belongs to the collection.
func (c *Collection) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Get returns the image with the given identifier.
func (c *Collection) Get(id string) (ImageDescriptor, bool) {
	i, ok := c.index[id]
	if !ok {
		return ImageDescriptor{}, false
	}
	return c.items[i], true
}

// Items returns a copy of the images in display order.
func (c *Collection) Items() []ImageDescriptor {
	out := make([]ImageDescriptor, len(c.items))
	copy(out, c.items)
	return out
}

// Neighbors returns the identifiers before and after id, wrapping at both ends.
// ok is false when id is unknown or the collection has fewer than two images.
func (c *Collection) Neighbors(id string) (prev, next string, ok bool) {
	i, found := c.index[id]
	n := len(c.items)
	if !found || n <= 1 {
		return "", "", false
	}
	prev = c.items[(i-1+n)%n].Identifier
	next = c.items[(i+1)%n].Identifier
	return prev, next, true
}
