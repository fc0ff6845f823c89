// Package static serves files from disk.
package static

import (
	"mime"
	"path"
	"strings"
)

// DefaultType is used when the extension is not recognised.
const DefaultType = "application/octet-stream"

var types = map[string]string{
	".txt":  "text/plain; charset=utf-8",
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".json": "application/json",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".wasm": "application/wasm",
}

// TypeByFilename returns the content type for the file's extension. Known extensions come from a fixed
// table, others from the system's mime database, and anything else is [DefaultType].
func TypeByFilename(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if t, ok := types[ext]; ok {
		return t
	}

	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}

	return DefaultType
}
