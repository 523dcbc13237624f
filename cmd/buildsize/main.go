package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yuya-takeyama/buildsize/internal/config"
	"github.com/yuya-takeyama/buildsize/internal/logging"
	"github.com/yuya-takeyama/buildsize/internal/session"
	"github.com/yuya-takeyama/buildsize/pkg/baseline"
	"github.com/yuya-takeyama/buildsize/pkg/bundler"
	"github.com/yuya-takeyama/buildsize/pkg/publish"
	"github.com/yuya-takeyama/buildsize/pkg/report"
	"github.com/yuya-takeyama/buildsize/pkg/s3client"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

var (
	debug             bool
	watch             bool
	outputPath        string
	configFile        string
	format            string
	quiet             bool
	verbose           bool
	metricsFile       string
	baselineURI       string
	publishURI        string
	deleteFlag        bool
	dryRun            bool
	concurrency       int
	profile           string
	region            string
	publishPlanJSON   string
	publishResultJSON string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "buildsize",
		Short: "Build a web app with esbuild and report compressed asset sizes",
		Long: `buildsize bundles the project with esbuild and prints the compressed size
of every emitted script and stylesheet, along with how much each one grew or
shrank since the previous build.`,
		Version:       fmt.Sprintf("%s (commit: %s, built at: %s by %s)", version, commit, date, builtBy),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	rootCmd.Flags().BoolVar(&debug, "debug", false, "Development build: no minification, no hashes, linked sourcemaps")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Rebuild whenever a source file changes")
	rootCmd.Flags().StringVarP(&outputPath, "output-path", "o", "", "Output directory (default from config or dist)")
	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to the config file")
	rootCmd.Flags().StringVar(&format, "format", "text", "Report format: text, table, json, yaml")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Only log warnings and errors")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "Log debug output")
	rootCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write asset size metrics in Prometheus text format to this file")
	rootCmd.Flags().StringVar(&baselineURI, "baseline", "", "Compare against a published build (s3://bucket/prefix) instead of the local output")
	rootCmd.Flags().StringVar(&publishURI, "publish", "", "Upload the build to s3://bucket/prefix after a successful build")
	rootCmd.Flags().BoolVar(&deleteFlag, "delete", false, "Delete published files that are not in the build output")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log the publish plan without executing it")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", publish.DefaultConcurrency, "Number of concurrent publish operations")
	rootCmd.Flags().StringVar(&profile, "profile", "", "AWS profile to use")
	rootCmd.Flags().StringVar(&region, "region", "", "AWS region (uses default if not specified)")
	rootCmd.Flags().StringVar(&publishPlanJSON, "publish-plan-json", "", "Path to output the publish plan as JSON")
	rootCmd.Flags().StringVar(&publishResultJSON, "publish-result-json", "", "Path to output the publish result as JSON")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logging.Setup(logging.Options{
		Verbose: verbose,
		Quiet:   quiet,
		NoColor: !term.IsTerminal(int(os.Stderr.Fd())),
	})

	err := build(cmd.Context())
	if err != nil {
		printError(err)
	}
	return err
}

func build(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reportFormat, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	bundlerOpts, err := session.BundlerOptions(cfg, debug)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	useColor := !color.NoColor && term.IsTerminal(int(os.Stdout.Fd()))

	opts := session.Options{
		OutputDir:   cfg.OutputDir(),
		Measure:     session.MeasureOptions(cfg),
		Debug:       debug,
		Renderer:    report.NewRenderer(reportFormat, useColor, session.Budget(cfg)),
		Diagnostics: os.Stderr,
		Color:       term.IsTerminal(int(os.Stderr.Fd())),
	}

	var client s3client.Client
	if baselineURI != "" || publishURI != "" {
		awsCfg, err := s3client.LoadAWSConfig(ctx, profile, region)
		if err != nil {
			return err
		}
		client = s3client.NewAWSClient(awsCfg)
	}

	if baselineURI != "" {
		opts.Baseline = baselineURI
		opts.BaselineLoader = baseline.NewLoader(client)
	}
	if metricsFile != "" {
		opts.AfterReport = append(opts.AfterReport, metricsHook(metricsFile))
	}
	if publishURI != "" {
		if watch {
			log.Warn().Str("publish", publishURI).Msg("Publishing is disabled in watch mode")
		} else {
			opts.AfterReport = append(opts.AfterReport, publishHook(client, cfg.OutputDir()))
		}
	}

	sess := session.New(bundler.NewESBuild(bundlerOpts), opts)
	if watch {
		return sess.Watch(ctx)
	}
	return sess.Run(ctx)
}

func loadConfig() (*config.Config, error) {
	environment := "production"
	if debug {
		environment = "development"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	var opts []config.Option
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if outputPath != "" {
		opts = append(opts, config.WithOutputPath(outputPath))
	}

	return config.Load(environment, cwd, opts...)
}

func printError(err error) {
	var compileErr *bundler.CompileError
	if errors.As(err, &compileErr) {
		useColor := term.IsTerminal(int(os.Stderr.Fd()))
		red := color.New(color.FgRed)
		if !useColor {
			red.DisableColor()
		}
		_, _ = red.Fprintln(os.Stderr, "Failed to compile.")
		_, _ = fmt.Fprintln(os.Stderr)
		for _, msg := range bundler.FormatMessages(compileErr.Messages, false, useColor) {
			_, _ = fmt.Fprint(os.Stderr, msg)
		}
		return
	}

	var parseErr *config.ParseError
	if errors.As(err, &parseErr) {
		log.Error().Err(parseErr.Err).Str("file", parseErr.File).Msg("Failed to parse configuration")
		return
	}

	var stateErr *session.StateError
	if errors.As(err, &stateErr) {
		log.Error().Err(stateErr.Err).Str("step", stateErr.State.String()).Msg("Build failed")
		return
	}

	log.Error().Err(err).Msg("Build failed")
}
