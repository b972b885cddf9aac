package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, opts ...Option) *ImageCache {
	t.Helper()
	c, err := New(t.TempDir(), opts...)
	require.NoError(t, err)
	return c
}

func TestHashKeyDeterministic(t *testing.T) {
	key := "picsum:42:http://img/1"
	first := hashKey(key)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, hashKey(key))
	}
	assert.Len(t, first, 32)
}

func TestHashKeyDualHashPassThrough(t *testing.T) {
	dual := "0123456789abcdef_fedcba9876543210"
	require.Len(t, dual, 33)
	assert.Equal(t, dual, hashKey(dual))

	// Separator in the wrong position is a plain key and gets hashed.
	notDual := "0123456789abcde_ffedcba9876543210"
	assert.NotEqual(t, notDual, hashKey(notDual))
	assert.Len(t, hashKey(notDual), 32)

	// 34 characters with an underscore at 16 is also a plain key.
	tooLong := dual + "x"
	assert.Len(t, hashKey(tooLong), 32)
}

func TestHashKeyNoCollisions(t *testing.T) {
	seen := make(map[string]string)
	for i := 0; i < 5000; i++ {
		key := fmt.Sprintf("source-%d:id-%d:http://example.com/%d", i%7, i, i)
		stem := hashKey(key)
		if prev, ok := seen[stem]; ok {
			t.Fatalf("collision between %q and %q", prev, key)
		}
		seen[stem] = key
	}
}

func TestPathFor(t *testing.T) {
	c := newTestCache(t)

	path := c.PathFor("some key", "png")
	assert.Equal(t, c.Dir(), filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".png"))

	// Empty extension defaults to jpg.
	assert.True(t, strings.HasSuffix(c.PathFor("some key", ""), ".jpg"))

	// Pure function: nothing is created on disk.
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStoreAndGet(t *testing.T) {
	c := newTestCache(t)
	data := []byte("image bytes")

	path, err := c.Store("key1", data, "jpg")
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	cached, ok := c.Get("key1", "jpg")
	assert.True(t, ok)
	assert.Equal(t, path, cached)

	// No leftover temp files from the atomic write.
	entries, err := os.ReadDir(c.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGetMiss(t *testing.T) {
	c := newTestCache(t)
	_, ok := c.Get("never stored", "jpg")
	assert.False(t, ok)
}

func TestTTLExpiry(t *testing.T) {
	c := newTestCache(t, WithTTL(time.Hour))

	path, err := c.Store("key1", []byte("data"), "jpg")
	require.NoError(t, err)

	// Fresh file is a hit.
	_, ok := c.Get("key1", "jpg")
	assert.True(t, ok)

	// Backdate the file beyond the TTL; the file still exists but the
	// entry is no longer valid.
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	_, ok = c.Get("key1", "jpg")
	assert.False(t, ok)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestIsValidNoTTL(t *testing.T) {
	c := newTestCache(t)

	path, err := c.Store("key1", []byte("data"), "jpg")
	require.NoError(t, err)

	// Without a TTL even ancient files stay valid.
	old := time.Now().Add(-1000 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
	assert.True(t, c.IsValid(path))
}

func TestEvictionByCount(t *testing.T) {
	const maxCount = 3
	c := newTestCache(t, WithMaxCount(maxCount))

	// Store maxCount+2 entries with staggered mtimes, oldest first.
	var paths []string
	for i := 0; i < maxCount+2; i++ {
		path, err := c.Store(fmt.Sprintf("key%d", i), []byte("data"), "jpg")
		require.NoError(t, err)
		mtime := time.Now().Add(time.Duration(i-maxCount-2) * time.Minute)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
		paths = append(paths, path)
	}

	// Trigger one more store; the directory must stay within the limit
	// and the oldest entries must be the ones that went.
	newest, err := c.Store("newest", []byte("data"), "jpg")
	require.NoError(t, err)

	entries, err := os.ReadDir(c.Dir())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(entries), maxCount)

	for _, path := range paths[:2] {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "oldest entry %s should be evicted", path)
	}
	_, err = os.Stat(newest)
	assert.NoError(t, err, "most recent entry must survive eviction")
}

func TestEvictionBySize(t *testing.T) {
	// Each entry is 100 bytes; cap the cache at 250 bytes.
	c := newTestCache(t, WithMaxSize(250))
	data := make([]byte, 100)

	for i := 0; i < 4; i++ {
		path, err := c.Store(fmt.Sprintf("key%d", i), data, "jpg")
		require.NoError(t, err)
		mtime := time.Now().Add(time.Duration(i-4) * time.Minute)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}

	files, err := c.listFiles()
	require.NoError(t, err)
	var total int64
	for _, f := range files {
		total += f.size
	}
	assert.LessOrEqual(t, total, int64(250))
}

func TestEvictionDisabledWithoutLimits(t *testing.T) {
	c := newTestCache(t)
	for i := 0; i < 20; i++ {
		_, err := c.Store(fmt.Sprintf("key%d", i), []byte("data"), "jpg")
		require.NoError(t, err)
	}
	entries, err := os.ReadDir(c.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestCleanup(t *testing.T) {
	c := newTestCache(t, WithTTL(time.Hour))

	oldPath, err := c.Store("old", []byte("data"), "jpg")
	require.NoError(t, err)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	freshPath, err := c.Store("fresh", []byte("data"), "jpg")
	require.NoError(t, err)

	removed, err := c.Cleanup(0) // falls back to the TTL
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(freshPath)
	assert.NoError(t, err)
}

func TestCleanupExplicitMaxAge(t *testing.T) {
	c := newTestCache(t) // no TTL configured

	path, err := c.Store("old", []byte("data"), "jpg")
	require.NoError(t, err)
	past := time.Now().Add(-10 * time.Minute)
	require.NoError(t, os.Chtimes(path, past, past))

	removed, err := c.Cleanup(5 * time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestCleanupNoopWithoutAge(t *testing.T) {
	c := newTestCache(t)
	_, err := c.Store("key", []byte("data"), "jpg")
	require.NoError(t, err)

	removed, err := c.Cleanup(0)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestClear(t *testing.T) {
	c := newTestCache(t)
	for i := 0; i < 5; i++ {
		_, err := c.Store(fmt.Sprintf("key%d", i), []byte("data"), "jpg")
		require.NoError(t, err)
	}

	removed, err := c.Clear()
	require.NoError(t, err)
	assert.Equal(t, 5, removed)

	entries, err := os.ReadDir(c.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	_, err := New(dir)
	require.NoError(t, err)

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}
