// Package imaging decides whether a path refers to a supported image.
// Classification is a pure function of the path string; it never touches
// file bytes, so it works for files that do not exist yet.
package imaging

import (
	"path/filepath"
	"strings"
)

// mimeByExtension is the closed set of supported image extensions.
// jpg normalizes to image/jpeg; everything else maps to image/<ext>.
var mimeByExtension = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Classify returns the MIME type for a supported image path and true, or
// ("", false) for anything else. The extension match is case-insensitive.
func Classify(path string) (string, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", false
	}
	mime, ok := mimeByExtension[ext]
	return mime, ok
}
