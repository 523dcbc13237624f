package logger

import (
	"github.com/rs/zerolog/log"
)

// Logger receives progress events from the publish planner and executor
type Logger interface {
	PhaseStart(phase string, totalItems int)
	ItemProcessed(phase string, item string, action string)
	PhaseComplete(phase string, processedItems int)
}

// VerboseLogger reports every event
type VerboseLogger struct{}

func (l *VerboseLogger) PhaseStart(phase string, totalItems int) {
	log.Debug().Str("phase", phase).Int("items", totalItems).Msg("Starting phase")
}

func (l *VerboseLogger) ItemProcessed(phase string, item string, action string) {
	log.Info().Str("phase", phase).Str("action", action).Msg(item)
}

func (l *VerboseLogger) PhaseComplete(phase string, processedItems int) {
	log.Debug().Str("phase", phase).Int("items", processedItems).Msg("Phase complete")
}

// NullLogger discards every event
type NullLogger struct{}

func (l *NullLogger) PhaseStart(phase string, totalItems int) {}

func (l *NullLogger) ItemProcessed(phase string, item string, action string) {}

func (l *NullLogger) PhaseComplete(phase string, processedItems int) {}

// QuietLogger reports only items that change the destination
type QuietLogger struct{}

func (l *QuietLogger) PhaseStart(phase string, totalItems int) {}

func (l *QuietLogger) ItemProcessed(phase string, item string, action string) {
	if action != "skip" {
		log.Info().Str("action", action).Msg(item)
	}
}

func (l *QuietLogger) PhaseComplete(phase string, processedItems int) {}

// New returns the logger for the given verbosity
func New(verbose, quiet bool) Logger {
	switch {
	case verbose:
		return &VerboseLogger{}
	case quiet:
		return &NullLogger{}
	default:
		return &QuietLogger{}
	}
}
