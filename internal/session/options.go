package session

import (
	"github.com/yuya-takeyama/buildsize/internal/config"
	"github.com/yuya-takeyama/buildsize/pkg/bundler"
	"github.com/yuya-takeyama/buildsize/pkg/report"
	"github.com/yuya-takeyama/buildsize/pkg/sizediff"
)

// BundlerOptions derives the compiler settings from the configuration
func BundlerOptions(cfg *config.Config, debug bool) (bundler.Options, error) {
	define, err := cfg.Defines()
	if err != nil {
		return bundler.Options{}, err
	}

	return bundler.Options{
		Entries:    cfg.EntryPoints(),
		WorkingDir: cfg.RootDir,
		SourceDir:  cfg.SourceRoot(),
		OutputDir:  cfg.OutputDir(),
		PublicPath: cfg.PublicPath,
		Target:     cfg.Target,
		Use:        cfg.Use,
		Style:      cfg.Style,
		Define:     define,
		Debug:      debug,
	}, nil
}

// MeasureOptions derives how emitted files are measured
func MeasureOptions(cfg *config.Config) sizediff.Options {
	return sizediff.Options{
		Algorithm: cfg.CompressionAlgorithm(),
		Excludes:  cfg.Exclude,
	}
}

// Budget derives the size limits from the configuration
func Budget(cfg *config.Config) report.Budget {
	return report.Budget{
		Script: cfg.MaxAssetSize,
		Style:  cfg.MaxStyleSize,
	}
}
