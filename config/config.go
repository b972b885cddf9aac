// Package config provides paths and constants shared across wallfetch.
package config

import (
	"log"
	"os"
	"path/filepath"
)

// GetCachePath returns the default directory for cached images, creating it
// if necessary.
func GetCachePath() string {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		log.Fatalf("Error getting user cache directory: %v", err)
	}
	dir := filepath.Join(userCacheDir, CacheSubDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("Error creating cache directory %s: %v", dir, err)
	}
	return dir
}

// GetPath returns the path to the user's config directory.
func GetPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Error getting user home directory: %v", err)
	}
	return filepath.Join(homeDir, LogSubDir)
}
