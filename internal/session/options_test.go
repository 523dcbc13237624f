package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuya-takeyama/buildsize/internal/compress"
	"github.com/yuya-takeyama/buildsize/internal/config"
)

func TestBundlerOptions(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.RootDir = root
	cfg.Use = config.UsePreact
	cfg.Style = config.StyleCSSModules
	cfg.Entry = []string{"src/main.jsx"}
	cfg.Define = []string{`__API__="https://api.example.com"`}

	opts, err := BundlerOptions(cfg, true)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "src", "main.jsx")}, opts.Entries)
	assert.Equal(t, root, opts.WorkingDir)
	assert.Equal(t, filepath.Join(root, "src"), opts.SourceDir)
	assert.Equal(t, filepath.Join(root, "dist"), opts.OutputDir)
	assert.Equal(t, "preact", opts.Use)
	assert.Equal(t, "css-modules", opts.Style)
	assert.Equal(t, map[string]string{"__API__": `"https://api.example.com"`}, opts.Define)
	assert.True(t, opts.Debug)
}

func TestBundlerOptionsInvalidDefine(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RootDir = t.TempDir()
	cfg.Define = []string{"MISSING_VALUE"}

	_, err := BundlerOptions(cfg, false)
	assert.Error(t, err)
}

func TestMeasureOptionsAndBudget(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Compression = "brotli"
	cfg.Exclude = []string{"**/*.worker.js"}
	cfg.MaxAssetSize = 1000
	cfg.MaxStyleSize = 2000

	m := MeasureOptions(cfg)
	assert.Equal(t, compress.Brotli, m.Algorithm)
	assert.Equal(t, []string{"**/*.worker.js"}, m.Excludes)

	b := Budget(cfg)
	assert.Equal(t, int64(1000), b.Script)
	assert.Equal(t, int64(2000), b.Style)
}
