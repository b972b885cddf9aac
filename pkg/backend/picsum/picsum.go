package picsum

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"

	"github.com/hyprland-community/wallfetch/pkg/backend"
)

// serviceName is the name of the Picsum image service.
const serviceName = "picsum"

// PicsumBaseURL is the base URL for Picsum Photos.
const PicsumBaseURL = "https://picsum.photos"

func init() {
	backend.Register(&PicsumBackend{})
}

// PicsumBackend fetches random placeholder images from Picsum Photos.
// Picsum serves an image at exactly the requested dimensions behind a
// redirect. No API key required, no keyword filtering.
type PicsumBackend struct{}

// Name returns the backend name.
func (b *PicsumBackend) Name() string { return serviceName }

// SupportsKeywords reports keyword support; Picsum has none.
func (b *PicsumBackend) SupportsKeywords() bool { return false }

// BaseURL returns the service base URL.
func (b *PicsumBackend) BaseURL() string { return PicsumBaseURL }

// FetchImageInfo resolves a random Picsum image at the requested size.
// Keywords are ignored.
func (b *PicsumBackend) FetchImageInfo(ctx context.Context, client *http.Client, req backend.Request) (*backend.ImageInfo, error) {
	// Random seed so repeated calls yield different images.
	seed := rand.Intn(1000000) + 1
	url := fmt.Sprintf("%s/seed/%d/%d/%d", PicsumBaseURL, seed, req.MinWidth, req.MinHeight)

	return backend.ResolveRedirect(ctx, client, url, serviceName, req.MinWidth, req.MinHeight, extractID)
}

// extractID pulls the numeric image ID out of a resolved Picsum URL, e.g.
// https://i.picsum.photos/id/123/1920/1080.jpg. Returns "" when absent.
func extractID(url string) string {
	_, after, found := strings.Cut(url, "/id/")
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, "/")
	return id
}
