package bing

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/url"
	"strings"

	"github.com/hyprland-community/wallfetch/pkg/backend"
)

// serviceName is the name of the Bing image service.
const serviceName = "bing"

// BingBaseURL is the base URL for the Bing homepage image archive.
const BingBaseURL = "https://www.bing.com"

// Bing serves its daily wallpapers at a fixed resolution.
const (
	bingWidth  = 1920
	bingHeight = 1080
)

func init() {
	backend.Register(&BingBackend{})
}

// BingBackend fetches one of the recent Bing daily wallpapers, typically
// landscapes and nature shots. No API key required, no keyword filtering,
// and no size filtering either: the requested dimensions are advisory only.
type BingBackend struct{}

// archiveResponse is the subset of the HPImageArchive payload we consume.
type archiveResponse struct {
	Images []archiveImage `json:"images"`
}

type archiveImage struct {
	URL       string `json:"url"`
	URLBase   string `json:"urlbase"`
	Title     string `json:"title"`
	Copyright string `json:"copyright"`
	StartDate string `json:"startdate"`
}

// Name returns the backend name.
func (b *BingBackend) Name() string { return serviceName }

// SupportsKeywords reports keyword support; Bing has none.
func (b *BingBackend) SupportsKeywords() bool { return false }

// BaseURL returns the service base URL.
func (b *BingBackend) BaseURL() string { return BingBaseURL }

// FetchImageInfo picks one of the last eight daily wallpapers at random.
// Keywords are ignored.
func (b *BingBackend) FetchImageInfo(ctx context.Context, client *http.Client, req backend.Request) (*backend.ImageInfo, error) {
	params := url.Values{}
	params.Set("format", "js")
	params.Set("idx", "0") // start from today
	params.Set("n", "8")   // Bing keeps at most 8 days of history
	params.Set("mkt", "en-US")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, BingBaseURL+"/HPImageArchive.aspx?"+params.Encode(), nil)
	if err != nil {
		return nil, backend.WrapErr(serviceName, err)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, backend.WrapErr(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, backend.Errorf(serviceName, "HTTP %d", resp.StatusCode)
	}

	var archive archiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&archive); err != nil {
		return nil, backend.Errorf(serviceName, "invalid response: %v", err)
	}
	if len(archive.Images) == 0 {
		return nil, backend.Errorf(serviceName, "no images available")
	}

	image := archive.Images[rand.Intn(len(archive.Images))]
	if image.URL == "" {
		return nil, backend.Errorf(serviceName, "no URL in image data")
	}

	// Bing returns relative paths; swap the fixed resolution for UHD to get
	// the best quality the archive offers.
	urlPath := strings.Replace(image.URL, "1920x1080", "UHD", 1)

	// The image ID is the last dot-separated segment of urlbase.
	imageID := image.URLBase
	if idx := strings.LastIndex(imageID, "."); idx != -1 {
		imageID = imageID[idx+1:]
	}

	return &backend.ImageInfo{
		URL:       BingBaseURL + urlPath,
		Width:     backend.Int(bingWidth),
		Height:    backend.Int(bingHeight),
		Source:    serviceName,
		ImageID:   imageID,
		Extension: "jpg",
		Extra: map[string]string{
			"title":     image.Title,
			"copyright": image.Copyright,
			"date":      image.StartDate,
		},
	}, nil
}
