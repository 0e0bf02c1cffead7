package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	B  = 1
	KB = 1024 * B
	MB = 1024 * KB
	GB = 1024 * MB
	TB = 1024 * GB
)

// FormatFileSize returns a human-readable size with one decimal ("1.5 KB").
func FormatFileSize(size int64) string {
	value := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if value < 1024 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1f TB", value)
}

// DirSize returns the total size of the files under a directory in bytes.
// Unreadable entries are skipped and reported in the returned error.
func DirSize(path string) (int64, error) {
	var size int64
	var errs []error
	err := filepath.WalkDir(path, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		size += info.Size()
		return nil
	})
	if err != nil {
		return size, err
	}
	return size, errors.Join(errs...)
}
