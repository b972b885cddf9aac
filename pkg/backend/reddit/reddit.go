package reddit

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
	backend.Register(&RedditBackend{})
}

// RedditBackend fetches community-curated wallpapers through Reddit's public
// JSON API. No authentication is needed for public subreddits. Keywords are
// mapped to curated subreddits (e.g. "nature" -> r/EarthPorn).
type RedditBackend struct{}

// listing is the subset of a subreddit listing we consume.
type listing struct {
	Data struct {
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Subreddit string `json:"subreddit"`
	Score     int    `json:"score"`
	URL       string `json:"url"`
	IsSelf    bool   `json:"is_self"`
	Preview   struct {
		Images []struct {
			Source struct {
				Width  int `json:"width"`
				Height int `json:"height"`
			} `json:"source"`
		} `json:"images"`
	} `json:"preview"`
}

// Name returns the backend name.
func (b *RedditBackend) Name() string { return serviceName }

// SupportsKeywords reports keyword support.
func (b *RedditBackend) SupportsKeywords() bool { return true }

// BaseURL returns the service base URL.
func (b *RedditBackend) BaseURL() string { return RedditBaseURL }

// FetchImageInfo picks a subreddit for the given keywords, lists its hot
// posts and returns one suitable image post at random.
func (b *RedditBackend) FetchImageInfo(ctx context.Context, client *http.Client, req backend.Request) (*backend.ImageInfo, error) {
	subreddits := subredditsFor(req.Keywords)
	subreddit := subreddits[rand.Intn(len(subreddits))]

	params := url.Values{}
	params.Set("limit", postLimit)
	listURL := fmt.Sprintf("%s/r/%s/hot.json?%s", RedditBaseURL, subreddit, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, backend.WrapErr(serviceName, err)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, backend.WrapErr(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, backend.Errorf(serviceName, "HTTP %d from r/%s", resp.StatusCode, subreddit)
	}

	var result listing
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, backend.Errorf(serviceName, "invalid response: %v", err)
	}

	candidates := filterPosts(result, req.MinWidth, req.MinHeight)
	if len(candidates) == 0 {
		return nil, backend.Errorf(serviceName, "no images found in r/%s matching size", subreddit)
	}

	return postToImageInfo(candidates[rand.Intn(len(candidates))]), nil
}

// subredditsFor maps keywords to subreddits; unrecognized keywords are tried
// literally as subreddit names.
func subredditsFor(keywords []string) []string {
	if len(keywords) == 0 {
		return defaultSubreddits
	}

	var subreddits []string
	for _, keyword := range keywords {
		if mapped, ok := keywordSubreddits[strings.ToLower(keyword)]; ok {
			subreddits = append(subreddits, mapped...)
		} else {
			subreddits = append(subreddits, keyword)
		}
	}
	if len(subreddits) == 0 {
		return defaultSubreddits
	}
	return subreddits
}

// filterPosts keeps direct-image posts that meet the size constraints when
// preview dimensions are available.
func filterPosts(result listing, minWidth, minHeight int) []post {
	var candidates []post
	for _, child := range result.Data.Children {
		p := child.Data
		if p.IsSelf || !isImageURL(p.URL) {
			continue
		}
		if len(p.Preview.Images) > 0 {
			source := p.Preview.Images[0].Source
			if source.Width < minWidth || source.Height < minHeight {
				continue
			}
		}
		candidates = append(candidates, p)
	}
	return candidates
}

func isImageURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	for _, host := range imageHosts {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return false
}

func postToImageInfo(p post) *backend.ImageInfo {
	info := &backend.ImageInfo{
		URL:       p.URL,
		Source:    serviceName,
		ImageID:   p.ID,
		Extension: "jpg",
		Extra: map[string]string{
			"title":     p.Title,
			"subreddit": p.Subreddit,
			"score":     strconv.Itoa(p.Score),
		},
	}

	if len(p.Preview.Images) > 0 {
		source := p.Preview.Images[0].Source
		if source.Width > 0 {
			info.Width = backend.Int(source.Width)
		}
		if source.Height > 0 {
			info.Height = backend.Int(source.Height)
		}
	}

	lower := strings.ToLower(p.URL)
	for _, ext := range []string{".png", ".webp", ".jpeg", ".jpg"} {
		if strings.Contains(lower, ext) {
			info.Extension = strings.TrimPrefix(ext, ".")
			break
		}
	}
	return info
}
