package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRedirect(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/start":
			http.Redirect(w, r, "/id/77/final.jpg", http.StatusFound)
		case "/id/77/final.jpg":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	extract := func(url string) string {
		_, after, found := strings.Cut(url, "/id/")
		if !found {
			return ""
		}
		id, _, _ := strings.Cut(after, "/")
		return id
	}

	info, err := ResolveRedirect(context.Background(), ts.Client(), ts.URL+"/start", "testsource", 1920, 1080, extract)
	require.NoError(t, err)

	assert.Equal(t, ts.URL+"/id/77/final.jpg", info.URL)
	assert.Equal(t, "77", info.ImageID)
	assert.Equal(t, "testsource", info.Source)
	assert.Equal(t, "jpg", info.Extension)
	// Dimensions come from the request, not the image.
	require.NotNil(t, info.Width)
	require.NotNil(t, info.Height)
	assert.Equal(t, 1920, *info.Width)
	assert.Equal(t, 1080, *info.Height)
}

func TestResolveRedirectHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := ResolveRedirect(context.Background(), ts.Client(), ts.URL, "testsource", 1920, 1080, nil)
	require.Error(t, err)

	var backendErr *Error
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "testsource", backendErr.Backend)
	assert.Contains(t, backendErr.Message, "503")
}

func TestResolveRedirectExtractionFailureIsNotAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	info, err := ResolveRedirect(context.Background(), ts.Client(), ts.URL, "testsource", 800, 600, func(string) string { return "" })
	require.NoError(t, err)
	assert.Equal(t, "", info.ImageID)
}

func TestResolveRedirectNilExtractor(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	info, err := ResolveRedirect(context.Background(), ts.Client(), ts.URL, "testsource", 800, 600, nil)
	require.NoError(t, err)
	assert.Equal(t, "", info.ImageID)
}
