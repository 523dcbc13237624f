package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yuya-takeyama/buildsize/pkg/sizediff"
)

// Options controls the global logger
type Options struct {
	Verbose bool
	Quiet   bool
	NoColor bool
	Writer  io.Writer
}

// Setup configures the global zerolog logger for console output on stderr
func Setup(opts Options) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    opts.NoColor,
		TimeFormat: "15:04:05",
	})

	switch {
	case opts.Verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case opts.Quiet:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// PublishSummary is the outcome of one publish run
type PublishSummary struct {
	Uploaded      int64
	Deleted       int64
	Errors        int64
	BytesUploaded int64
	Duration      time.Duration
	DryRun        bool
}

// PrintSummary logs a summary of the publish operation
func PrintSummary(s PublishSummary) {
	event := log.Info()
	if s.Errors > 0 {
		event = log.Error().Int64("errors", s.Errors)
	}

	msg := "Publish complete"
	if s.DryRun {
		msg = "Publish planned (dry run)"
	}

	event.
		Int64("uploaded", s.Uploaded).
		Str("bytes", sizediff.FormatSize(s.BytesUploaded)).
		Int64("deleted", s.Deleted).
		Dur("duration", s.Duration.Round(time.Millisecond)).
		Msg(msg)
}
