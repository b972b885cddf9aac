// Package cache implements the disk-backed image cache: plain files named by
// a hashed key, TTL expiry, and oldest-first eviction bounded by total size
// and file count. The directory itself is the only index; every operation
// re-reads the filesystem.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hyprland-community/wallfetch/util/log"
)

// Dual-hash key format: {16-char content hash}_{16-char settings hash}.
// Keys already in this form are used verbatim as the filename stem so the
// two halves stay independently addressable (e.g. purge all variants of one
// source image regardless of settings).
const (
	dualHashKeyLength    = 33
	dualHashSeparatorPos = 16
	dualHashSeparator    = '_'
)

// DefaultExtension is used when a caller passes an empty extension.
const DefaultExtension = "jpg"

// ImageCache is a file-based cache with optional TTL and size/count limits.
// A single process is assumed to own the cache directory; concurrent stores
// from the same process are tolerated (last write wins) but not coordinated.
type ImageCache struct {
	dir      string
	ttl      time.Duration // 0 means cached files never expire
	maxSize  int64         // bytes, 0 means unbounded
	maxCount int           // files, 0 means unbounded
}

// Option configures an ImageCache.
type Option func(*ImageCache)

// WithTTL sets the time-to-live for cached files.
func WithTTL(ttl time.Duration) Option {
	return func(c *ImageCache) { c.ttl = ttl }
}

// WithMaxSize bounds the total size of the cache directory in bytes.
func WithMaxSize(bytes int64) Option {
	return func(c *ImageCache) { c.maxSize = bytes }
}

// WithMaxCount bounds the number of files kept in the cache directory.
func WithMaxCount(n int) Option {
	return func(c *ImageCache) { c.maxCount = n }
}

// New creates an ImageCache rooted at dir, creating the directory if needed.
func New(dir string, opts ...Option) (*ImageCache, error) {
	c := &ImageCache{dir: dir}
	for _, opt := range opts {
		opt(c)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	return c, nil
}

// Dir returns the cache directory.
func (c *ImageCache) Dir() string {
	return c.dir
}

// TTL returns the configured time-to-live, 0 when files never expire.
func (c *ImageCache) TTL() time.Duration {
	return c.ttl
}

// hashKey normalizes a cache key into a filesystem-safe filename stem.
// Keys already in dual-hash form pass through verbatim; everything else is
// SHA-256 hashed and truncated to 32 hex characters.
func hashKey(key string) string {
	if len(key) == dualHashKeyLength && key[dualHashSeparatorPos] == dualHashSeparator {
		return key
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:32]
}

// PathFor computes the on-disk location for a key without touching the
// filesystem. An empty extension defaults to jpg.
func (c *ImageCache) PathFor(key, extension string) string {
	if extension == "" {
		extension = DefaultExtension
	}
	return filepath.Join(c.dir, hashKey(key)+"."+extension)
}

// IsValid reports whether the file exists and is within the TTL.
func (c *ImageCache) IsValid(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	if c.ttl == 0 {
		return true
	}
	return time.Since(fi.ModTime()) < c.ttl
}

// Get returns the cached path for key iff a valid entry exists.
func (c *ImageCache) Get(key, extension string) (string, bool) {
	path := c.PathFor(key, extension)
	if c.IsValid(path) {
		return path, true
	}
	return "", false
}

// Store writes data under the key and returns the resulting path. The write
// goes to a temporary name first and is renamed into place so readers never
// observe a partial file. When a size or count limit is configured, eviction
// runs afterwards on a best-effort basis.
func (c *ImageCache) Store(key string, data []byte, extension string) (string, error) {
	path := c.PathFor(key, extension)

	tmp := path + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("writing cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("committing cache file: %w", err)
	}

	if c.maxSize > 0 || c.maxCount > 0 {
		c.evict()
	}

	return path, nil
}

// cacheFile pairs a directory entry with the stat data eviction needs.
type cacheFile struct {
	path    string
	size    int64
	modTime time.Time
}

// listFiles returns the regular files in the cache directory.
func (c *ImageCache) listFiles() ([]cacheFile, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, err
	}
	files := make([]cacheFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, cacheFile{
			path:    filepath.Join(c.dir, entry.Name()),
			size:    fi.Size(),
			modTime: fi.ModTime(),
		})
	}
	return files, nil
}

func (c *ImageCache) underLimits(size int64, count int) bool {
	sizeOK := c.maxSize == 0 || size <= c.maxSize
	countOK := c.maxCount == 0 || count <= c.maxCount
	return sizeOK && countOK
}

// evict removes oldest-by-mtime files until both configured limits are
// satisfied. Failures are logged and never surface to the store that
// triggered the eviction.
func (c *ImageCache) evict() {
	files, err := c.listFiles()
	if err != nil {
		log.Printf("cache: eviction scan failed: %v", err)
		return
	}

	var totalSize int64
	for _, f := range files {
		totalSize += f.size
	}
	count := len(files)

	if c.underLimits(totalSize, count) {
		return
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})

	for _, f := range files {
		if c.underLimits(totalSize, count) {
			break
		}
		if err := os.Remove(f.path); err != nil {
			log.Printf("cache: failed to evict %s: %v", f.path, err)
			continue
		}
		log.Debugf("cache: evicted %s", f.path)
		totalSize -= f.size
		count--
	}
}

// Cleanup removes every file older than maxAge, falling back to the cache
// TTL when maxAge is 0. A no-op returning 0 when neither is set. Returns the
// number of files removed.
func (c *ImageCache) Cleanup(maxAge time.Duration) (int, error) {
	ageLimit := maxAge
	if ageLimit == 0 {
		ageLimit = c.ttl
	}
	if ageLimit == 0 {
		return 0, nil
	}

	files, err := c.listFiles()
	if err != nil {
		return 0, fmt.Errorf("scanning cache directory: %w", err)
	}

	removed := 0
	now := time.Now()
	for _, f := range files {
		if now.Sub(f.modTime) <= ageLimit {
			continue
		}
		if err := os.Remove(f.path); err != nil {
			log.Printf("cache: failed to remove %s: %v", f.path, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// Clear removes every cached file. Returns the number of files removed.
func (c *ImageCache) Clear() (int, error) {
	files, err := c.listFiles()
	if err != nil {
		return 0, fmt.Errorf("scanning cache directory: %w", err)
	}

	removed := 0
	for _, f := range files {
		if err := os.Remove(f.path); err != nil {
			log.Printf("cache: failed to remove %s: %v", f.path, err)
			continue
		}
		removed++
	}
	return removed, nil
}
