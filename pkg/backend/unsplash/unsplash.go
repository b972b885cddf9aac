package unsplash

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"

	"github.com/hyprland-community/wallfetch/pkg/backend"
)

// serviceName is the name of the Unsplash image service.
const serviceName = "unsplash"

// UnsplashBaseURL is the base URL for Unsplash Source.
const UnsplashBaseURL = "https://source.unsplash.com"

func init() {
	backend.Register(&UnsplashBackend{})
}

// UnsplashBackend fetches random images through Unsplash Source, which
// serves a direct image behind a redirect without requiring an API key.
// Keywords narrow the result set.
type UnsplashBackend struct{}

// Name returns the backend name.
func (b *UnsplashBackend) Name() string { return serviceName }

// SupportsKeywords reports keyword support.
func (b *UnsplashBackend) SupportsKeywords() bool { return true }

// BaseURL returns the service base URL.
func (b *UnsplashBackend) BaseURL() string { return UnsplashBaseURL }

// FetchImageInfo resolves a random Unsplash image at the requested size,
// optionally filtered by keywords.
func (b *UnsplashBackend) FetchImageInfo(ctx context.Context, client *http.Client, req backend.Request) (*backend.ImageInfo, error) {
	url := fmt.Sprintf("%s/random/%dx%d", UnsplashBaseURL, req.MinWidth, req.MinHeight)
	if len(req.Keywords) > 0 {
		url = fmt.Sprintf("%s/?%s", url, strings.Join(req.Keywords, ","))
	}

	// Cache buster so intermediate caches don't pin us to one image.
	separator := "?"
	if strings.Contains(url, "?") {
		separator = "&"
	}
	url = fmt.Sprintf("%s%s_=%d", url, separator, rand.Intn(1000000)+1)

	return backend.ResolveRedirect(ctx, client, url, serviceName, req.MinWidth, req.MinHeight, extractID)
}

// extractID pulls the photo ID out of a resolved Unsplash URL, e.g.
// https://unsplash.com/photos/<id>/download. Returns "" when absent.
func extractID(url string) string {
	_, after, found := strings.Cut(url, "photos/")
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, "/")
	id, _, _ = strings.Cut(id, "?")
	return id
}
