package filesystem

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ky489401/anki-canonical/pkg/clock"
	"github.com/otiai10/copy"
)

var (
	reInvalidChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	reUnderscores  = regexp.MustCompile(`_+`)
)

// FileStats describes a file on disk.
type FileStats struct {
	Exists    bool
	SizeBytes int64
	SizeMB    float64
	Modified  time.Time
	Extension string
}

// Stats returns basic information about a file. Missing files have Exists=false.
func Stats(path string) FileStats {
	info, err := os.Stat(path)
	if err != nil {
		return FileStats{}
	}
	return FileStats{
		Exists:    true,
		SizeBytes: info.Size(),
		SizeMB:    float64(info.Size()) / MB,
		Modified:  info.ModTime(),
		Extension: filepath.Ext(path),
	}
}

// SetupOutputDirectory creates the directory and its parents when missing.
func SetupOutputDirectory(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Abs(dir)
}

// BackupFile copies a file next to the original with a timestamp inserted
// before the extension (deck.apkg => deck.20230101_120000.apkg).
func BackupFile(path string) (string, error) {
	ext := filepath.Ext(path)
	timestamp := clock.Now().Format("20060102_150405")
	backupPath := strings.TrimSuffix(path, ext) + "." + timestamp + ext
	err := copy.Copy(path, backupPath, copy.Options{
		PreserveTimes: true,
	})
	if err != nil {
		return "", err
	}
	return backupPath, nil
}

// CleanFilename replaces characters invalid on common filesystems by underscores.
func CleanFilename(filename string) string {
	filename = reInvalidChars.ReplaceAllString(filename, "_")
	filename = reUnderscores.ReplaceAllString(filename, "_")
	return strings.Trim(filename, "_")
}
