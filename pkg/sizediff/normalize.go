package sizediff

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// hashSegmentPattern matches one or more content-hash segments between a base
// name and a .js/.css extension. A hash is lowercase hex of at least six
// characters or esbuild's eight-character uppercase base32 form.
var hashSegmentPattern = regexp.MustCompile(`^(.+?)(?:\.(?:[0-9a-f]{6,}|[0-9A-Z]{8}))+\.(js|css)$`)

// Normalize converts an emitted file path into its asset key: the path
// relative to root, slash-separated, with content hashes removed.
// Normalize(root, Normalize(root, p)) == Normalize(root, p).
func Normalize(root, path string) string {
	return StripHash(relativeTo(root, path))
}

// sharedChunkName is the name esbuild gives every chunk of code shared
// between split points. Only the hash tells such chunks apart.
const sharedChunkName = "chunk"

// StripHash removes content-hash segments from a slash-separated path.
// Shared chunks keep their hash.
func StripHash(rel string) string {
	dir, base := "", rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		dir, base = rel[:i+1], rel[i+1:]
	}
	m := hashSegmentPattern.FindStringSubmatch(base)
	if m == nil || m[1] == sharedChunkName {
		return rel
	}
	return dir + m[1] + "." + m[2]
}

// HasHash reports whether the file name of rel carries a content hash
func HasHash(rel string) bool {
	return hashSegmentPattern.MatchString(path.Base(rel))
}

// AssetKeys maps each slash-separated path to its asset key. Paths whose
// stripped keys would collide keep their full name, so two files never
// share a key.
func AssetKeys(rels []string) map[string]string {
	counts := make(map[string]int, len(rels))
	for _, rel := range rels {
		counts[StripHash(rel)]++
	}

	keys := make(map[string]string, len(rels))
	for _, rel := range rels {
		key := StripHash(rel)
		if counts[key] > 1 {
			key = rel
		}
		keys[rel] = key
	}
	return keys
}

// IsMeasured reports whether the file at p is a script or stylesheet
func IsMeasured(p string) bool {
	ext := filepath.Ext(p)
	for _, want := range Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

func relativeTo(root, path string) string {
	if root != "" && filepath.IsAbs(path) {
		if rel, err := filepath.Rel(root, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			path = rel
		}
	}
	return strings.TrimPrefix(filepath.ToSlash(path), "./")
}
