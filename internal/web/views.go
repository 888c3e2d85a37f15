package web

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"evalgo.org/darkroom/internal/gallery"
	"evalgo.org/darkroom/models"
)

//go:generate templ generate

const htmxScript = "https://unpkg.com/htmx.org@1.9.12"

type navLink struct {
	Href  string
	Label string
}

// pageMeta is what the layout needs besides the page body.
type pageMeta struct {
	Site         string
	Title        string
	Path         string
	Nav          []navLink
	Categories   []models.Category
	Active       string
	ScrollLocked bool
	Prefetch     []string
	// ReplaceURL, when set, is written to the address bar with history.replaceState.
	ReplaceURL string
}

func (m pageMeta) title() string {
	if m.Title == "" {
		return m.Site
	}
	return m.Title + " - " + m.Site
}

// galleryView is a rendered category page.
type galleryView struct {
	Category  models.Category
	Base      string
	Param     string
	Tiles     []gallery.Tile
	Lightbox  gallery.LightboxView
	Open      bool
	LoadError string
	Keys      gallery.KeyMap
}

func (v galleryView) focusURL(id string) string {
	return v.Base + "?" + url.Values{v.Param: {id}}.Encode()
}

func (v galleryView) partialURL(id string) string {
	if id == "" {
		return v.Base + "/lightbox"
	}
	return v.Base + "/lightbox?" + url.Values{v.Param: {id}}.Encode()
}

// replaceTarget is where a lightbox control leads; an empty id is the closed gallery.
func (v galleryView) replaceTarget(id string) string {
	if id == "" {
		return v.Base
	}
	return v.focusURL(id)
}

func (v galleryView) counter() string {
	return fmt.Sprintf("%d of %d", v.Lightbox.Position, v.Lightbox.Total)
}

// coursesView is the course card listing.
type coursesView struct {
	Courses   []courseCard
	LoadError string
}

type courseCard struct {
	Title    string
	ImageURL string
	AltText  string
}

func keysAttr(keys []string) string {
	return strings.Join(keys, " ")
}

func recaptchaURL(siteKey string) string {
	return "https://www.google.com/recaptcha/api.js?render=" + url.QueryEscape(siteKey)
}

func scriptTag(js string) string {
	return "<script>" + js + "</script>"
}

func replaceStateScript(u string) string {
	target, _ := json.Marshal(u)
	return scriptTag("history.replaceState(history.state, \"\", " + string(target) + ");")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
