package bing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyprland-community/wallfetch/pkg/backend"
)

// mockTransport redirects every request to the test server.
type mockTransport struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func rewritingClient(t *testing.T, ts *httptest.Server) *http.Client {
	t.Helper()
	return &http.Client{
		Transport: &mockTransport{
			RoundTripFunc: func(req *http.Request) (*http.Response, error) {
				u, err := req.URL.Parse(ts.URL)
				require.NoError(t, err)
				req.URL.Scheme = u.Scheme
				req.URL.Host = u.Host
				return http.DefaultTransport.RoundTrip(req)
			},
		},
	}
}

const archivePayload = `{
	"images": [
		{
			"url": "/th?id=OHR.Sample_EN-US123_1920x1080.jpg",
			"urlbase": "/th?id=OHR.Sample_EN-US123",
			"title": "Sample Title",
			"copyright": "Sample Photographer",
			"startdate": "20260829"
		}
	]
}`

func TestFetchImageInfo(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/HPImageArchive.aspx", r.URL.Path)
		assert.Equal(t, "js", r.URL.Query().Get("format"))
		assert.Equal(t, "8", r.URL.Query().Get("n"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(archivePayload))
	}))
	defer ts.Close()

	b := &BingBackend{}
	info, err := b.FetchImageInfo(context.Background(), rewritingClient(t, ts), backend.Request{
		MinWidth:  1920,
		MinHeight: 1080,
		Keywords:  []string{"ignored"},
	})
	require.NoError(t, err)

	assert.Equal(t, serviceName, info.Source)
	// The fixed resolution is swapped for UHD.
	assert.Equal(t, BingBaseURL+"/th?id=OHR.Sample_EN-US123_UHD.jpg", info.URL)
	// The ID is the last dot-separated segment of urlbase.
	assert.Equal(t, "Sample_EN-US123", info.ImageID)
	assert.Equal(t, "jpg", info.Extension)
	require.NotNil(t, info.Width)
	assert.Equal(t, 1920, *info.Width)
	assert.Equal(t, "Sample Title", info.Extra["title"])
	assert.Equal(t, "20260829", info.Extra["date"])
}

func TestFetchImageInfoEmptyArchive(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"images": []}`))
	}))
	defer ts.Close()

	b := &BingBackend{}
	_, err := b.FetchImageInfo(context.Background(), rewritingClient(t, ts), backend.Request{MinWidth: 1920, MinHeight: 1080})
	require.Error(t, err)

	var backendErr *backend.Error
	require.ErrorAs(t, err, &backendErr)
	assert.Contains(t, backendErr.Message, "no images")
}

func TestFetchImageInfoMissingURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"images": [{"urlbase": "/th?id=OHR.X"}]}`))
	}))
	defer ts.Close()

	b := &BingBackend{}
	_, err := b.FetchImageInfo(context.Background(), rewritingClient(t, ts), backend.Request{MinWidth: 1920, MinHeight: 1080})
	require.Error(t, err)
}

func TestFetchImageInfoHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	b := &BingBackend{}
	_, err := b.FetchImageInfo(context.Background(), rewritingClient(t, ts), backend.Request{MinWidth: 1920, MinHeight: 1080})
	require.Error(t, err)
}

func TestBackendMetadata(t *testing.T) {
	b := &BingBackend{}
	assert.Equal(t, "bing", b.Name())
	assert.False(t, b.SupportsKeywords())
	assert.Equal(t, BingBaseURL, b.BaseURL())
}
