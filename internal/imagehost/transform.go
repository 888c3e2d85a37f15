package imagehost

import "strings"

// ImageKit transformation presets.
const (
	ThumbnailTransform = "tr=w-128,q-80,fo-auto"
	GridTransform      = "tr=w-700,q-80,fo-auto"
)

// Transform appends transformation parameters to an asset URL.
func Transform(src, params string) string {
	if src == "" || params == "" {
		return src
	}
	if strings.Contains(src, "?") {
		return src + "&" + params
	}
	return src + "?" + params
}

// ThumbnailURL returns the low-resolution rendition used by the thumbnail strip.
func ThumbnailURL(src string) string {
	return Transform(src, ThumbnailTransform)
}

// GridURL returns the rendition used by grid tiles.
func GridURL(src string) string {
	return Transform(src, GridTransform)
}
