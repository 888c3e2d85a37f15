package imagehost

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/darkroom/internal/config"
)

func TestListFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/files", r.URL.Path)
		assert.Equal(t, "/family", r.URL.Query().Get("path"))
		assert.Equal(t, "image", r.URL.Query().Get("fileType"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "", r.URL.Query().Get("skip"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "private_test", user)
		assert.Equal(t, "", pass)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"type":"file","fileId":"f1","name":"one.jpg","url":"https://ik.imagekit.io/x/family/one.jpg","width":1024,"height":768},
			{"type":"folder","fileId":"d1","name":"sub"},
			{"type":"file","fileId":"f2","name":"two.jpg","url":"https://ik.imagekit.io/x/family/two.jpg"}
		]`))
	}))
	defer srv.Close()

	ik := NewImageKit(config.ImageKitConfig{APIURL: srv.URL, PrivateKey: "private_test", ListLimit: 100}, nil)
	files, err := ik.ListFiles(context.Background(), "family", ListOptions{})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "f1", files[0].FileID)
	assert.Equal(t, "f2", files[1].FileID)

	entries := ToListing(files)
	assert.Equal(t, ListingEntry{
		ID:     "f1",
		URL:    "https://ik.imagekit.io/x/family/one.jpg",
		Name:   "one.jpg",
		Width:  1024,
		Height: 768,
	}, entries[0])
}

func TestListFiles_Paging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "40", r.URL.Query().Get("skip"))
		assert.Equal(t, "/fineart", r.URL.Query().Get("path"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ik := NewImageKit(config.ImageKitConfig{APIURL: srv.URL, ListLimit: 100}, nil)
	files, err := ik.ListFiles(context.Background(), "/fineart/", ListOptions{Limit: 20, Skip: 40})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListFiles_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Your request does not contain private API key."}`))
	}))
	defer srv.Close()

	ik := NewImageKit(config.ImageKitConfig{APIURL: srv.URL}, nil)
	_, err := ik.ListFiles(context.Background(), "family", ListOptions{})

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusUnauthorized, ue.StatusCode)
	assert.Equal(t, "Your request does not contain private API key.", ue.Message)
}
