package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"evalgo.org/darkroom/internal/imagehost"
)

// listImages proxies a folder listing from the media host.
// GET /api/imagekit?folder=<name>&limit=&offset=
func (s *Server) listImages(c echo.Context) error {
	folder := strings.Trim(strings.TrimSpace(c.QueryParam("folder")), "/")
	if folder == "" {
		return c.JSON(http.StatusOK, []imagehost.ListingEntry{})
	}

	limit, offset := parsePagination(c)

	files, err := s.files.ListFiles(c.Request().Context(), folder, imagehost.ListOptions{
		Limit: limit,
		Skip:  offset,
	})
	if err != nil {
		return BadGatewayError("Failed to list images", err)
	}

	return c.JSON(http.StatusOK, imagehost.ToListing(files))
}

// getGallery returns the normalized collection of a category.
// GET /api/gallery/:category?limit=&offset=
func (s *Server) getGallery(c echo.Context) error {
	slug := c.Param("category")

	cat, ok := s.config.Gallery.Category(slug)
	if !ok {
		return NotFoundError("Category", slug)
	}

	coll, err := s.web.Collection(c.Request().Context(), cat.Slug)
	if err != nil {
		return BadGatewayError("Failed to load gallery", err)
	}

	limit, offset := parsePagination(c)

	return c.JSON(http.StatusOK, GalleryResponse{
		Category: cat.Slug,
		Name:     cat.Name,
		Count:    coll.Len(),
		Images:   paginateSlice(coll.Items(), limit, offset),
	})
}
