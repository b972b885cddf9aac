package backend

import (
	"context"
	"net/http"
)

// ResolveRedirect fetches a URL known to redirect to the final image and
// builds an ImageInfo from the resolved location. This is the shared pattern
// for sources like Picsum and Unsplash which serve images behind redirects.
//
// Width and height in the result are the requested dimensions, not measured
// ones. extractID pulls a stable identifier out of the final URL; when it
// returns "" the image simply has no ID, which is not an error.
func ResolveRedirect(ctx context.Context, client *http.Client, rawURL, name string, width, height int, extractID func(string) string) (*ImageInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, WrapErr(name, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, WrapErr(name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, Errorf(name, "HTTP %d", resp.StatusCode)
	}

	// resp.Request points at the last request of the redirect chain.
	finalURL := resp.Request.URL.String()

	imageID := ""
	if extractID != nil {
		imageID = extractID(finalURL)
	}

	return &ImageInfo{
		URL:       finalURL,
		Width:     Int(width),
		Height:    Int(height),
		Source:    name,
		ImageID:   imageID,
		Extension: "jpg",
	}, nil
}
