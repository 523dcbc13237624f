package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// unsetAfter removes variables that dotenv loading may set for the process
func unsetAfter(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, ok := os.LookupEnv(name); ok {
			t.Fatalf("%s must not be set before the test", name)
		}
	}
	t.Cleanup(func() {
		for _, name := range names {
			_ = os.Unsetenv(name)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load("production", dir)
	require.NoError(t, err)

	assert.Equal(t, UseReact, cfg.Use)
	assert.Equal(t, StyleCSS, cfg.Style)
	assert.Equal(t, "dist", cfg.OutputPath)
	assert.Equal(t, "/", cfg.PublicPath)
	assert.Equal(t, "es2017", cfg.Target)
	assert.Equal(t, "gzip", cfg.Compression)
	assert.Equal(t, []string{"src/index.js"}, cfg.Entry)
	assert.Equal(t, int64(DefaultMaxAssetSize), cfg.MaxAssetSize)
	assert.Empty(t, cfg.ConfigFile)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, filepath.Join(dir, "dist"), cfg.OutputDir())
	assert.Equal(t, []string{filepath.Join(dir, "src", "index.js")}, cfg.EntryPoints())
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "buildsize.yml", `
use: preact
style: css-modules
outputPath: build
publicPath: /app/
target: es2020
compression: brotli
maxAssetSize: 1000
exclude:
  - "**/*.worker.js"
define:
  - '__VERSION__="1.2.3"'
`)

	cfg, err := Load("production", dir)
	require.NoError(t, err)

	assert.Equal(t, UsePreact, cfg.Use)
	assert.Equal(t, StyleCSSModules, cfg.Style)
	assert.Equal(t, "build", cfg.OutputPath)
	assert.Equal(t, "/app/", cfg.PublicPath)
	assert.Equal(t, "es2020", cfg.Target)
	assert.Equal(t, "brotli", cfg.Compression)
	assert.Equal(t, int64(1000), cfg.MaxAssetSize)
	assert.Equal(t, int64(DefaultMaxStyleSize), cfg.MaxStyleSize)
	assert.Equal(t, []string{"**/*.worker.js"}, cfg.Exclude)
	defines, err := cfg.Defines()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"__VERSION__": `"1.2.3"`}, defines)
	assert.Equal(t, filepath.Join(dir, "buildsize.yml"), cfg.ConfigFile)
}

func TestLoadExplicitJSONFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config/site.json", `{"use": "vanilla", "style": "css", "entry": ["app/main.ts"]}`)

	cfg, err := Load("development", dir, WithConfigFile("config/site.json"))
	require.NoError(t, err)

	assert.Equal(t, UseVanilla, cfg.Use)
	assert.Equal(t, []string{"app/main.ts"}, cfg.Entry)
	assert.False(t, cfg.IsProduction())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load("production", t.TempDir(), WithConfigFile("nope.yml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "buildsize.yaml", "use: [unclosed\n")

	_, err := Load("production", dir)
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, filepath.Join(dir, "buildsize.yaml"), parseErr.File)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown use", "use: angular\nstyle: css\n"},
		{"unknown style", "use: react\nstyle: sass\n"},
		{"unknown compression", "use: react\nstyle: css\ncompression: zstd\n"},
		{"negative budget", "use: react\nstyle: css\nmaxAssetSize: -1\n"},
		{"malformed define", "use: react\nstyle: css\ndefine: [NOVALUE]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "buildsize.yml", tt.content)

			_, err := Load("production", dir)
			require.Error(t, err)
			var parseErr *ParseError
			assert.False(t, errors.As(err, &parseErr))
		})
	}
}

func TestLoadRejectsOutputPathOverSources(t *testing.T) {
	tests := []struct {
		name       string
		outputPath string
		wantErr    bool
	}{
		{"project root", ".", true},
		{"project root with trailing slash", "./", true},
		{"source directory", "src", true},
		{"parent of the project", "..", true},
		{"dedicated directory", "dist", false},
		{"directory inside sources", "src/build", false},
		{"sibling sharing a prefix", "src-out", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "buildsize.yml", "use: react\nstyle: css\n")

			_, err := Load("production", dir, WithOutputPath(tt.outputPath))
			if tt.wantErr {
				assert.ErrorContains(t, err, "outputPath")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadEnvironmentOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "buildsize.yml", "use: react\nstyle: css\noutputPath: build\n")
	t.Setenv("BUILDSIZE_OUTPUTPATH", "out")
	t.Setenv("BUILDSIZE_USE", "preact")

	cfg, err := Load("production", dir)
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.OutputPath)
	assert.Equal(t, UsePreact, cfg.Use)
}

func TestLoadOutputPathOption(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "buildsize.yml", "use: react\nstyle: css\noutputPath: build\n")

	cfg, err := Load("production", dir, WithOutputPath("public"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "public"), cfg.OutputDir())
}

func TestLoadDotenvPriority(t *testing.T) {
	unsetAfter(t, "BUILDSIZE_TARGET", "BUILDSIZE_PUBLICPATH")

	dir := t.TempDir()
	writeFile(t, dir, ".env", "BUILDSIZE_TARGET=es2015\nBUILDSIZE_PUBLICPATH=/from-env/\n")
	writeFile(t, dir, ".env.production", "BUILDSIZE_TARGET=es2020\n")

	cfg, err := Load("production", dir)
	require.NoError(t, err)

	assert.Equal(t, "es2020", cfg.Target)
	assert.Equal(t, "/from-env/", cfg.PublicPath)
	assert.Equal(t, []string{".env.production", ".env"}, cfg.EnvFiles)
}

func TestDotenvFiles(t *testing.T) {
	assert.Equal(t,
		[]string{".env.production.local", ".env.local", ".env.production", ".env"},
		dotenvFiles("production"),
	)
	assert.Equal(t,
		[]string{".env.test.local", ".env.test", ".env"},
		dotenvFiles("test"),
	)
}

func TestDefaultEntryDetection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/index.tsx", "export {}")
	writeFile(t, dir, "src/index.js", "export {}")

	cfg, err := Load("production", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/index.tsx"}, cfg.Entry)
}
