package medias

import (
	"path/filepath"
	"strings"
)

// Kind groups media by what Anki can do with them.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindAudio
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	}
	return "unknown"
}

// Media types supported by the Anki desktop and mobile clients.
// See https://developer.mozilla.org/en-US/docs/Web/HTTP/Basics_of_HTTP/MIME_types/Common_types
var mimeTypes = map[string]string{
	".avif": "image/avif",
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".ico":  "image/vnd.microsoft.icon",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
	".aac":  "audio/aac",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".mp3":  "audio/mpeg",
	".oga":  "audio/ogg",
	".ogg":  "audio/ogg",
	".opus": "audio/opus",
	".wav":  "audio/wav",
	".weba": "audio/webm",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".mp4":  "video/mp4",
	".mpeg": "video/mpeg",
	".ogv":  "video/ogg",
	".webm": "video/webm",
}

// MimeType returns the MIME type of a file extension (ex: ".png").
func MimeType(extension string) string {
	mime, ok := mimeTypes[strings.ToLower(extension)]
	if !ok {
		// RFC 2046 declares:
		// The "octet-stream" subtype is used to indicate that a body contains arbitrary binary data.
		return "application/octet-stream"
	}
	return mime
}

// KindOf returns the kind of media of a file.
func KindOf(path string) Kind {
	mime := MimeType(filepath.Ext(path))
	switch {
	case strings.HasPrefix(mime, "image/"):
		return KindImage
	case strings.HasPrefix(mime, "audio/"):
		return KindAudio
	case strings.HasPrefix(mime, "video/"):
		return KindVideo
	}
	return KindUnknown
}

// IsMedia returns if a file can be embedded in a flashcard.
func IsMedia(path string) bool {
	return KindOf(path) != KindUnknown
}
