package models

import "fmt"

// ImageDescriptor represents one displayable asset from the media host.
//
// Identifier is the host's stable key for the asset and is the only value used
// for selection and URL sync. DisplayIndex is positional and only feeds
// fallback captions.
//
// Example JSON representation:
//
//	{
//	  "id": "64f1c0ffee",
//	  "displayIndex": 0,
//	  "url": "https://ik.imagekit.io/demo/family/beach.jpg",
//	  "alt": "beach.jpg",
//	  "title": "beach.jpg",
//	  "width": 3000,
//	  "height": 2000
//	}
type ImageDescriptor struct {
	// Identifier is the host-supplied stable key (never the array position)
	Identifier string `json:"id"`

	// DisplayIndex is the 0-based position in the fetched listing
	DisplayIndex int `json:"displayIndex"`

	// SourceURL is the fully-qualified URL of the full-resolution asset
	SourceURL string `json:"url"`

	// AltText is the accessible label for the image
	AltText string `json:"alt"`

	// Title is the human-readable caption
	Title string `json:"title"`

	// Width and Height are the intrinsic dimensions in pixels, 0 when unknown
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// PlaceholderTitle returns the caption used when the host supplies no name.
func PlaceholderTitle(displayIndex int) string {
	return fmt.Sprintf("Image %d", displayIndex+1)
}
