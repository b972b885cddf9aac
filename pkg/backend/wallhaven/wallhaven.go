package wallhaven

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hyprland-community/wallfetch/pkg/backend"
)

func init() {
	backend.Register(&WallhavenBackend{})
}

// WallhavenBackend fetches wallpapers from the Wallhaven search API.
// Wallhaven filters by minimum resolution and free-text search terms and
// needs no API key for SFW content.
type WallhavenBackend struct{}

// searchResponse is the subset of the wallhaven search payload we consume.
type searchResponse struct {
	Data []searchEntry `json:"data"`
}

type searchEntry struct {
	ID         string `json:"id"`
	Path       string `json:"path"`
	DimensionX int    `json:"dimension_x"`
	DimensionY int    `json:"dimension_y"`
	Category   string `json:"category"`
	Views      int    `json:"views"`
	Favorites  int    `json:"favorites"`
}

// Name returns the backend name.
func (b *WallhavenBackend) Name() string { return serviceName }

// SupportsKeywords reports keyword support.
func (b *WallhavenBackend) SupportsKeywords() bool { return true }

// BaseURL returns the service base URL.
func (b *WallhavenBackend) BaseURL() string { return WallhavenBaseURL }

// FetchImageInfo queries the wallhaven search API and picks one result at
// random. Keywords become the free-text search query.
func (b *WallhavenBackend) FetchImageInfo(ctx context.Context, client *http.Client, req backend.Request) (*backend.ImageInfo, error) {
	params := url.Values{}
	params.Set("categories", CategoriesGeneral)
	params.Set("purity", PuritySFW)
	params.Set("sorting", SortingRandom)
	params.Set("atleast", fmt.Sprintf("%dx%d", req.MinWidth, req.MinHeight))
	if len(req.Keywords) > 0 {
		params.Set("q", strings.Join(req.Keywords, " "))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, WallhavenAPISearchURL+"?"+params.Encode(), nil)
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

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, backend.Errorf(serviceName, "invalid response: %v", err)
	}
	if len(result.Data) == 0 {
		return nil, backend.Errorf(serviceName, "no images found matching criteria")
	}

	// Uniform random pick spreads load and varies results between calls.
	entry := result.Data[rand.Intn(len(result.Data))]

	extension := "jpg"
	if idx := strings.LastIndex(entry.Path, "."); idx != -1 {
		extension = strings.ToLower(entry.Path[idx+1:])
	}

	info := &backend.ImageInfo{
		URL:       entry.Path,
		Source:    serviceName,
		ImageID:   entry.ID,
		Extension: extension,
		Extra: map[string]string{
			"category":  entry.Category,
			"views":     strconv.Itoa(entry.Views),
			"favorites": strconv.Itoa(entry.Favorites),
		},
	}
	if entry.DimensionX > 0 {
		info.Width = backend.Int(entry.DimensionX)
	}
	if entry.DimensionY > 0 {
		info.Height = backend.Int(entry.DimensionY)
	}
	return info, nil
}
