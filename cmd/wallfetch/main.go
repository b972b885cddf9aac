// Command wallfetch fetches a random wallpaper from the enabled online
// backends, caches it on disk and prints the local path.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hyprland-community/wallfetch/config"
	"github.com/hyprland-community/wallfetch/pkg/backend"
	_ "github.com/hyprland-community/wallfetch/pkg/backend/all"
	"github.com/hyprland-community/wallfetch/pkg/cache"
	"github.com/hyprland-community/wallfetch/pkg/fetch"
	"github.com/hyprland-community/wallfetch/util/log"
)

func main() {
	var (
		width    = flag.Int("width", config.DefaultWidth, "minimum image width in pixels")
		height   = flag.Int("height", config.DefaultHeight, "minimum image height in pixels")
		keywords = flag.String("keywords", "", "comma-separated keywords (backend dependent)")
		forced   = flag.String("backend", "", "force a specific backend")
		enabled  = flag.String("backends", "", "comma-separated backends to enable (default: all)")
		cacheDir = flag.String("cache-dir", "", "cache directory (default: user cache dir)")
		ttl      = flag.Duration("ttl", 0, "cache time-to-live, 0 means never expire")
		maxSize  = flag.Int64("max-size", 0, "maximum cache size in bytes, 0 means unbounded")
		maxCount = flag.Int("max-count", 0, "maximum number of cached files, 0 means unbounded")
		timeout  = flag.Duration("timeout", 2*time.Minute, "overall fetch timeout")
		interval = flag.Duration("rate", 0, "minimum interval between backend requests, 0 disables")
		list     = flag.Bool("list", false, "list available backends and exit")
		cleanup  = flag.Bool("cleanup", false, "remove expired cache entries and exit")
		clear    = flag.Bool("clear", false, "remove all cache entries and exit")
		version  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("%s %s\n", config.AppName, config.AppVersion)
		return
	}

	if *list {
		for _, name := range backend.Default().Names() {
			b, _ := backend.Default().Get(name)
			keywordNote := ""
			if b.SupportsKeywords() {
				keywordNote = " (keywords)"
			}
			fmt.Printf("%-12s %s%s\n", name, b.BaseURL(), keywordNote)
		}
		return
	}

	dir := *cacheDir
	if dir == "" {
		dir = config.GetCachePath()
	}

	imageCache, err := cache.New(dir,
		cache.WithTTL(*ttl),
		cache.WithMaxSize(*maxSize),
		cache.WithMaxCount(*maxCount),
	)
	if err != nil {
		log.Fatalf("Failed to open cache: %v", err)
	}

	if *cleanup {
		removed, err := imageCache.Cleanup(0)
		if err != nil {
			log.Fatalf("Cache cleanup failed: %v", err)
		}
		fmt.Printf("removed %d expired files\n", removed)
		return
	}
	if *clear {
		removed, err := imageCache.Clear()
		if err != nil {
			log.Fatalf("Cache clear failed: %v", err)
		}
		fmt.Printf("removed %d files\n", removed)
		return
	}

	var names []string
	if *enabled != "" {
		for _, name := range strings.Split(*enabled, ",") {
			names = append(names, strings.TrimSpace(name))
		}
	}

	req := fetch.Request{
		MinWidth:  *width,
		MinHeight: *height,
		Backend:   *forced,
	}
	if *keywords != "" {
		for _, kw := range strings.Split(*keywords, ",") {
			req.Keywords = append(req.Keywords, strings.TrimSpace(kw))
		}
	}

	var opts []fetch.Option
	if *interval > 0 {
		opts = append(opts, fetch.WithRateLimit(rate.NewLimiter(rate.Every(*interval), 1)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	path, err := fetch.Fetch(ctx, names, imageCache, req, opts...)
	if err != nil {
		log.Printf("Fetch failed: %v", err)
		os.Exit(1)
	}
	fmt.Println(path)
}
