package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"reel-digest/domain/video"
)

// TempPatterns match the temporary files created by the downloader and extractors
var TempPatterns = []string{"reel-*.mp4", "reel-audio-*.mp3"}

// TempFiles implements video.FileChecker and video.FileRemover using the os package
type TempFiles struct{}

// NewTempFiles creates a new temporary file manager
func NewTempFiles() *TempFiles {
	return &TempFiles{}
}

// Exists returns true if the file exists
func (t *TempFiles) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Remove deletes path. A file that is already gone is not an error.
func (t *TempFiles) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Sweep removes temporary files in dir older than maxAge, left by a previous
// process that exited mid-request. It returns the removed paths.
func (t *TempFiles) Sweep(dir string, maxAge time.Duration) ([]string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	cutoff := time.Now().Add(-maxAge)

	var removed []string
	for _, pattern := range TempPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return removed, err
		}
		for _, path := range matches {
			info, err := os.Stat(path)
			if err != nil || info.IsDir() || info.ModTime().After(cutoff) {
				continue
			}
			if err := t.Remove(path); err != nil {
				return removed, err
			}
			removed = append(removed, path)
		}
	}
	return removed, nil
}

// Ensure TempFiles implements the video file ports
var (
	_ video.FileChecker = (*TempFiles)(nil)
	_ video.FileRemover = (*TempFiles)(nil)
)
