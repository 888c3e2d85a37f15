package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/imagekit", r.URL.Path)
		assert.Equal(t, "family", r.URL.Query().Get("folder"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("offset"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"f1","url":"https://ik.imagekit.io/demo/a.jpg","width":300}]`))
	}))
	defer srv.Close()

	c, err := New(srv.URL + "/")
	require.NoError(t, err)

	images, err := c.Images(context.Background(), "family", Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []ListingEntry{{ID: "f1", URL: "https://ik.imagekit.io/demo/a.jpg", Width: 300}}, images)
}

func TestGallery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/gallery/family", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"category":"family","name":"Family","count":1,
			"images":[{"id":"a","displayIndex":0,"url":"https://ik.imagekit.io/demo/a.jpg","alt":"Image 1","title":"Image 1"}]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	g, err := c.Gallery(context.Background(), "family", Page{})
	require.NoError(t, err)
	assert.Equal(t, "Family", g.Name)
	require.Len(t, g.Images, 1)
	assert.Equal(t, "Image 1", g.Images[0].Title)
}

func TestGallery_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":404,"message":"Category not found","context":{"id":"weddings"}}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Gallery(context.Background(), "weddings", Page{})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Category not found", apiErr.Message)
}

func TestContact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req ContactRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		if req.Token == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success":false,"error":"Captcha failed","details":{"success":false}}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"id":"email-1"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	id, err := c.Contact(context.Background(), ContactRequest{Name: "Ada", Email: "ada@example.com", Message: "Hi", Token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "email-1", id)

	_, err = c.Contact(context.Background(), ContactRequest{Name: "Ada"})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Captcha failed", apiErr.Message)
	assert.JSONEq(t, `{"success":false}`, string(apiErr.Details))
}
