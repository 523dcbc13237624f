// Package session runs the build pipeline: snapshot the previous output,
// clear it, compile, diff the emitted sizes and report them.
package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yuya-takeyama/buildsize/pkg/bundler"
	"github.com/yuya-takeyama/buildsize/pkg/report"
	"github.com/yuya-takeyama/buildsize/pkg/sizediff"
)

// BaselineLoader reads previous sizes from a published build
type BaselineLoader interface {
	Load(ctx context.Context, s3URI string, opts sizediff.Options) (sizediff.SizeMap, error)
}

// Hook runs after a report has been rendered
type Hook func(ctx context.Context, rep *report.Report) error

// Options configures a Session
type Options struct {
	OutputDir string
	Measure   sizediff.Options
	Debug     bool

	// Baseline, when set, is an s3:// URI read by BaselineLoader instead of
	// snapshotting OutputDir
	Baseline       string
	BaselineLoader BaselineLoader

	Renderer    *report.Renderer
	AfterReport []Hook

	// Diagnostics receives formatted compiler warnings
	Diagnostics io.Writer
	Color       bool
}

// Session carries the state of one build or one watch run
type Session struct {
	compiler bundler.Compiler
	opts     Options
	state    State
	previous sizediff.SizeMap
	reports  int
}

func New(compiler bundler.Compiler, opts Options) *Session {
	if opts.Diagnostics == nil {
		opts.Diagnostics = os.Stderr
	}
	if opts.Renderer == nil {
		opts.Renderer = report.NewRenderer(report.FormatText, opts.Color, report.Budget{})
	}
	return &Session{
		compiler: compiler,
		opts:     opts,
		state:    StateIdle,
	}
}

// State returns the current step
func (s *Session) State() State {
	return s.state
}

// Previous returns the sizes the builds are compared against
func (s *Session) Previous() sizediff.SizeMap {
	return s.previous
}

// Reports returns how many reports have been rendered
func (s *Session) Reports() int {
	return s.reports
}

// Run performs a single build
func (s *Session) Run(ctx context.Context) error {
	if err := s.prepare(ctx); err != nil {
		return err
	}

	s.transition(StateBuilding)
	s.logBuildStart()

	result, err := s.compiler.Build(ctx)
	if err != nil {
		return s.fail(err)
	}
	if err := s.complete(ctx, result); err != nil {
		return err
	}

	s.transition(StateDone)
	return nil
}

// Watch builds and keeps rebuilding until ctx is cancelled. Every rebuild
// is compared against the sizes captured before the first build. A failed
// compilation ends the session.
func (s *Session) Watch(ctx context.Context) error {
	if err := s.prepare(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.transition(StateBuilding)
	s.logBuildStart()

	results, err := s.compiler.Watch(ctx)
	if err != nil {
		return s.fail(err)
	}

	for result := range results {
		if err := s.complete(ctx, &result); err != nil {
			return err
		}
		s.transition(StateBuilding)
		log.Info().Msg("Watching for changes...")
	}

	s.transition(StateDone)
	return nil
}

func (s *Session) prepare(ctx context.Context) error {
	if s.state != StateIdle {
		return fmt.Errorf("session already started (state %s)", s.state)
	}

	s.transition(StateSnapshotting)
	previous, err := s.snapshot(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.previous = previous

	s.transition(StateClearing)
	if err := EmptyDir(s.opts.OutputDir); err != nil {
		return s.fail(err)
	}

	return nil
}

func (s *Session) snapshot(ctx context.Context) (sizediff.SizeMap, error) {
	if s.opts.Baseline != "" {
		if s.opts.BaselineLoader == nil {
			return nil, fmt.Errorf("baseline %s configured without a loader", s.opts.Baseline)
		}
		log.Info().Str("baseline", s.opts.Baseline).Msg("Reading previous sizes from published build")
		return s.opts.BaselineLoader.Load(ctx, s.opts.Baseline, s.opts.Measure)
	}
	return sizediff.Snapshot(s.opts.OutputDir, s.opts.Measure)
}

func (s *Session) complete(ctx context.Context, result *bundler.Result) error {
	if result.Failed() {
		return s.fail(result.Err())
	}

	s.transition(StateDiffing)
	assets, err := sizediff.Measure(s.opts.OutputDir, result.Outputs, s.previous, s.opts.Measure)
	if err != nil {
		return s.fail(err)
	}

	s.transition(StateReporting)
	s.logBuildResult(result)

	rep := &report.Report{
		OutputPath:  s.opts.OutputDir,
		Compression: string(s.opts.Measure.Algorithm),
		Duration:    result.Duration,
		Assets:      assets,
	}
	for _, w := range result.Warnings {
		rep.Warnings = append(rep.Warnings, w.String())
	}

	if err := s.opts.Renderer.Render(rep); err != nil {
		return s.fail(fmt.Errorf("render report: %w", err))
	}
	s.reports++

	for _, hook := range s.opts.AfterReport {
		if err := hook(ctx, rep); err != nil {
			return s.fail(err)
		}
	}

	return nil
}

func (s *Session) logBuildStart() {
	if s.opts.Debug {
		log.Info().Msg("Creating a development build...")
		return
	}
	log.Info().Msg("Creating an optimized production build...")
}

func (s *Session) logBuildResult(result *bundler.Result) {
	if len(result.Warnings) == 0 {
		log.Info().Msgf("Compiled successfully in %s", result.Duration.Round(time.Millisecond))
		return
	}

	log.Warn().Int("warnings", len(result.Warnings)).Msg("Compiled with warnings.")
	for _, msg := range bundler.FormatMessages(result.Warnings, true, s.opts.Color) {
		_, _ = fmt.Fprint(s.opts.Diagnostics, msg)
	}
}

func (s *Session) transition(next State) {
	log.Debug().Str("from", s.state.String()).Str("to", next.String()).Msg("Session state")
	s.state = next
}

func (s *Session) fail(err error) error {
	failed := &StateError{State: s.state, Err: err}
	s.transition(StateFailed)
	return failed
}
