package sizediff

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHash(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"static/js/main.aaa111.js", "static/js/main.js"},
		{"static/js/main.bbb222.js", "static/js/main.js"},
		{"static/css/main.3f9a1c2b.css", "static/css/main.css"},
		{"static/js/main.QXZ4KD2M.js", "static/js/main.js"},
		{"static/js/main.js", "static/js/main.js"},
		{"static/js/vendor.aaa111.bbb222.js", "static/js/vendor.js"},
		{"static/css/button.module.css", "static/css/button.module.css"},
		{"static/js/main.aaa111.js.map", "static/js/main.aaa111.js.map"},
		{"static/media/logo.aaa111.svg", "static/media/logo.aaa111.svg"},
		{"static/js/main.abc.js", "static/js/main.abc.js"},
		{"aaa111.js", "aaa111.js"},
		{"static/abc12345.d/main.js", "static/abc12345.d/main.js"},
		{"static/js/chunk.IRGWKVZZ.js", "static/js/chunk.IRGWKVZZ.js"},
		{"static/js/chunk.aaa111.js", "static/js/chunk.aaa111.js"},
		{"static/js/chunk.js", "static/js/chunk.js"},
		{"static/js/vendors-chunk.aaa111.js", "static/js/vendors-chunk.js"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHash(tt.in))
		})
	}
}

func TestNormalizeStripsRoot(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "project", "dist")

	assert.Equal(t, "static/js/main.js", Normalize(root, filepath.Join(root, "static", "js", "main.aaa111.js")))
	assert.Equal(t, "static/js/main.js", Normalize(root, "static/js/main.aaa111.js"))
	assert.Equal(t, "static/js/main.js", Normalize("", "./static/js/main.aaa111.js"))

	outside := filepath.Join(string(filepath.Separator), "elsewhere", "main.aaa111.js")
	assert.Equal(t, filepath.ToSlash(filepath.Join(string(filepath.Separator), "elsewhere", "main.js")), Normalize(root, outside))
}

func TestNormalizeIdempotent(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "project", "dist")
	paths := []string{
		filepath.Join(root, "static", "js", "main.aaa111.js"),
		filepath.Join(root, "static", "js", "main.js"),
		filepath.Join(root, "static", "js", "a.b.c.js"),
		filepath.Join(root, "static", "js", "x.aaa111.bbb222.ccc333.js"),
		filepath.Join(root, "static", "js", "chunk.ABCDEFGH.aaa111.js"),
		filepath.Join(root, "static", "js", "main.aaa111.chunk.js"),
		filepath.Join(root, "static", "js", "main.chunk.aaa111.js"),
		filepath.Join(root, "static", "css", "deadbeef.deadbeef.css"),
		"static/css/main.css",
	}

	for _, p := range paths {
		once := Normalize(root, p)
		assert.Equal(t, once, Normalize(root, once), "path %s", p)
	}
}

func TestNormalizeCollapsesHashVariants(t *testing.T) {
	root := "/srv/app/dist"
	hashed := Normalize(root, "/srv/app/dist/static/js/main.0123abcd.js")
	plain := Normalize(root, "/srv/app/dist/static/js/main.js")
	assert.Equal(t, plain, hashed)
}

func TestAssetKeys(t *testing.T) {
	tests := []struct {
		name string
		rels []string
		want map[string]string
	}{
		{
			name: "distinct names are stripped",
			rels: []string{"static/js/main.aaa111.js", "static/css/main.bbb222.css"},
			want: map[string]string{
				"static/js/main.aaa111.js":   "static/js/main.js",
				"static/css/main.bbb222.css": "static/css/main.css",
			},
		},
		{
			name: "shared chunks keep their hash",
			rels: []string{"static/js/chunk.AAAA1111.js", "static/js/chunk.BBBB2222.js"},
			want: map[string]string{
				"static/js/chunk.AAAA1111.js": "static/js/chunk.AAAA1111.js",
				"static/js/chunk.BBBB2222.js": "static/js/chunk.BBBB2222.js",
			},
		},
		{
			name: "colliding names keep their full path",
			rels: []string{"static/js/page.aaa111.js", "static/js/page.bbb222.js", "static/js/main.ccc333.js"},
			want: map[string]string{
				"static/js/page.aaa111.js": "static/js/page.aaa111.js",
				"static/js/page.bbb222.js": "static/js/page.bbb222.js",
				"static/js/main.ccc333.js": "static/js/main.js",
			},
		},
		{
			name: "hashed and plain variants of one name",
			rels: []string{"static/js/main.js", "static/js/main.aaa111.js"},
			want: map[string]string{
				"static/js/main.js":        "static/js/main.js",
				"static/js/main.aaa111.js": "static/js/main.aaa111.js",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssetKeys(tt.rels))
		})
	}
}

func TestIsMeasured(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"static/js/main.aaa111.js", true},
		{"static/css/main.css", true},
		{filepath.Join("dist", "static", "js", "main.js"), true},
		{"static/js/main.js.map", false},
		{"index.html", false},
		{"static/media/logo.svg", false},
		{"static/js/main.jsx", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMeasured(tt.path))
		})
	}
}

func TestHasHash(t *testing.T) {
	assert.True(t, HasHash("static/js/main.aaa111.js"))
	assert.True(t, HasHash("static/js/chunk.IRGWKVZZ.js"))
	assert.False(t, HasHash("static/js/main.js"))
	assert.False(t, HasHash("static/abc12345.d/main.js"))
	assert.False(t, HasHash("index.html"))
}
