package publish

import (
	"mime"
	"path/filepath"

	"github.com/yuya-takeyama/buildsize/pkg/sizediff"
)

const (
	cacheImmutable  = "public, max-age=31536000, immutable"
	cacheRevalidate = "no-cache"
)

// knownTypes pins the types of emitted build files regardless of the
// host's mime tables
var knownTypes = map[string]string{
	".css":  "text/css; charset=utf-8",
	".html": "text/html; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".json": "application/json",
	".map":  "application/json",
	".mjs":  "text/javascript; charset=utf-8",
	".svg":  "image/svg+xml",
	".wasm": "application/wasm",
}

func guessContentType(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}

	if contentType, ok := knownTypes[ext]; ok {
		return contentType
	}
	return mime.TypeByExtension(ext)
}

// cacheControl marks content-hashed scripts and stylesheets as immutable.
// Everything else, index.html included, must be revalidated.
func cacheControl(key string) string {
	if sizediff.HasHash(key) {
		return cacheImmutable
	}
	return cacheRevalidate
}
