package config

import "github.com/spf13/viper"

const (
	DefaultUse          = UseReact
	DefaultStyle        = StyleCSS
	DefaultOutputPath   = "dist"
	DefaultPublicPath   = "/"
	DefaultSourceDir    = "src"
	DefaultTarget       = "es2017"
	DefaultCompression  = "gzip"
	DefaultMaxAssetSize = 512 * 1024
	DefaultMaxStyleSize = 1024 * 1024
)

// DefaultConfig returns the configuration used when no file or environment
// override sets a field
func DefaultConfig() *Config {
	return &Config{
		Use:          DefaultUse,
		Style:        DefaultStyle,
		OutputPath:   DefaultOutputPath,
		PublicPath:   DefaultPublicPath,
		SourceDir:    DefaultSourceDir,
		Target:       DefaultTarget,
		Exclude:      []string{},
		Compression:  DefaultCompression,
		MaxAssetSize: DefaultMaxAssetSize,
		MaxStyleSize: DefaultMaxStyleSize,
		Define:       []string{},
	}
}

// setDefaults registers defaults for every key except use and style, whose
// absence is reported to the user before falling back
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("outputPath", d.OutputPath)
	v.SetDefault("publicPath", d.PublicPath)
	v.SetDefault("sourceDir", d.SourceDir)
	v.SetDefault("target", d.Target)
	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("compression", d.Compression)
	v.SetDefault("maxAssetSize", d.MaxAssetSize)
	v.SetDefault("maxStyleSize", d.MaxStyleSize)
	v.SetDefault("define", d.Define)
}
