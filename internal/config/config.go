// Package config resolves the build configuration from the project's
// buildsize config file, dotenv files and BUILDSIZE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/yuya-takeyama/buildsize/internal/compress"
)

const (
	ConfigName = "buildsize"
	EnvPrefix  = "BUILDSIZE"
)

const (
	UseReact   = "react"
	UsePreact  = "preact"
	UseVanilla = "vanilla"

	StyleCSS        = "css"
	StyleCSSModules = "css-modules"
)

// Config is the resolved build configuration
type Config struct {
	Use          string   `mapstructure:"use"`
	Style        string   `mapstructure:"style"`
	Entry        []string `mapstructure:"entry"`
	OutputPath   string   `mapstructure:"outputPath"`
	PublicPath   string   `mapstructure:"publicPath"`
	SourceDir    string   `mapstructure:"sourceDir"`
	Target       string   `mapstructure:"target"`
	Exclude      []string `mapstructure:"exclude"`
	Compression  string   `mapstructure:"compression"`
	MaxAssetSize int64    `mapstructure:"maxAssetSize"`
	MaxStyleSize int64    `mapstructure:"maxStyleSize"`
	Define       []string `mapstructure:"define"`

	// Set by Load, never read from the file
	Environment string   `mapstructure:"-"`
	RootDir     string   `mapstructure:"-"`
	ConfigFile  string   `mapstructure:"-"`
	EnvFiles    []string `mapstructure:"-"`
}

type options struct {
	configFile string
	outputPath string
}

// Option customizes Load
type Option func(*options)

// WithConfigFile reads the given file instead of searching the project root
func WithConfigFile(path string) Option {
	return func(o *options) { o.configFile = path }
}

// WithOutputPath overrides the configured output directory
func WithOutputPath(path string) Option {
	return func(o *options) { o.outputPath = path }
}

// Load resolves the configuration for environment ("production" or
// "development") in the project rooted at cwd
func Load(environment, cwd string, opts ...Option) (*Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	root, err := filepath.Abs(cwd)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	envFiles, err := loadEnvFiles(root, environment)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	_ = v.BindEnv("use")
	_ = v.BindEnv("style")
	_ = v.BindEnv("entry")

	if o.configFile != "" {
		path := o.configFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(root)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &ParseError{File: v.ConfigFileUsed(), Err: err}
		}
		log.Debug().Msg("No config file found, using environment variables and defaults")
	} else {
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("Config file loaded")
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, &ParseError{File: v.ConfigFileUsed(), Err: err}
	}

	if !v.IsSet("use") {
		log.Warn().Str("default", DefaultUse).Msg(`No "use" option configured, assuming react`)
		cfg.Use = DefaultUse
	}
	if !v.IsSet("style") {
		log.Warn().Str("default", DefaultStyle).Msg(`No "style" option configured, assuming plain css`)
		cfg.Style = DefaultStyle
	}

	if o.outputPath != "" {
		cfg.OutputPath = o.outputPath
	}

	cfg.Environment = environment
	cfg.RootDir = root
	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.EnvFiles = envFiles
	cfg.Use = strings.ToLower(strings.TrimSpace(cfg.Use))
	cfg.Style = strings.ToLower(strings.TrimSpace(cfg.Style))

	if len(cfg.Entry) == 0 {
		cfg.Entry = []string{defaultEntry(root, cfg.SourceDir)}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultEntry returns the first index file that exists in the source
// directory, or src/index.js when none does
func defaultEntry(root, sourceDir string) string {
	for _, name := range []string{"index.tsx", "index.ts", "index.jsx", "index.js"} {
		candidate := filepath.ToSlash(filepath.Join(sourceDir, name))
		if _, err := os.Stat(filepath.Join(root, candidate)); err == nil {
			return candidate
		}
	}
	return filepath.ToSlash(filepath.Join(sourceDir, "index.js"))
}

// Validate checks the enumerated fields
func (c *Config) Validate() error {
	switch c.Use {
	case UseReact, UsePreact, UseVanilla:
	default:
		return fmt.Errorf("use must be one of react, preact, vanilla (got %q)", c.Use)
	}

	switch c.Style {
	case StyleCSS, StyleCSSModules:
	default:
		return fmt.Errorf("style must be one of css, css-modules (got %q)", c.Style)
	}

	if c.OutputPath == "" {
		return fmt.Errorf("outputPath cannot be empty")
	}
	if err := c.validateOutputDir(); err != nil {
		return err
	}
	if c.Target == "" {
		return fmt.Errorf("target cannot be empty")
	}
	if _, err := compress.ParseAlgorithm(c.Compression); err != nil {
		return err
	}
	if c.MaxAssetSize < 0 || c.MaxStyleSize < 0 {
		return fmt.Errorf("size budgets cannot be negative")
	}
	if _, err := c.Defines(); err != nil {
		return err
	}

	return nil
}

// validateOutputDir rejects output directories whose clearing would remove
// the project or its sources
func (c *Config) validateOutputDir() error {
	out := c.OutputDir()
	if out == filepath.Clean(c.RootDir) {
		return fmt.Errorf("outputPath cannot be the project root (%s)", out)
	}
	if isWithin(out, c.SourceRoot()) {
		return fmt.Errorf("outputPath %s contains the source directory %s", out, c.SourceRoot())
	}
	return nil
}

// isWithin reports whether path is dir or lies below it
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// IsProduction reports whether the configuration targets a production build
func (c *Config) IsProduction() bool {
	return c.Environment != "development"
}

// OutputDir returns the absolute output directory
func (c *Config) OutputDir() string {
	return c.abs(c.OutputPath)
}

// SourceRoot returns the absolute source directory
func (c *Config) SourceRoot() string {
	return c.abs(c.SourceDir)
}

// EntryPoints returns the absolute entry point paths
func (c *Config) EntryPoints() []string {
	entries := make([]string, len(c.Entry))
	for i, e := range c.Entry {
		entries[i] = c.abs(e)
	}
	return entries
}

// Defines parses the KEY=VALUE define entries. Keys are kept as a list
// rather than a map because viper lowercases map keys.
func (c *Config) Defines() (map[string]string, error) {
	defines := make(map[string]string, len(c.Define))
	for _, d := range c.Define {
		key, value, ok := strings.Cut(d, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("define must be KEY=VALUE (got %q)", d)
		}
		defines[key] = value
	}
	return defines, nil
}

// CompressionAlgorithm returns the parsed compression algorithm
func (c *Config) CompressionAlgorithm() compress.Algorithm {
	algo, err := compress.ParseAlgorithm(c.Compression)
	if err != nil {
		return compress.Gzip
	}
	return algo
}

func (c *Config) abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.RootDir, filepath.FromSlash(p))
}
