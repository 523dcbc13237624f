// Package bundler drives esbuild to produce the project build and reports
// the emitted files.
package bundler

import (
	"context"
	"fmt"
	"time"
)

// Message is a compiler error or warning
type Message struct {
	Text     string
	File     string
	Line     int
	Column   int
	LineText string
	Notes    []string
}

func (m Message) String() string {
	if m.File == "" {
		return m.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", m.File, m.Line, m.Column, m.Text)
}

// Result describes one finished compilation
type Result struct {
	Errors   []Message
	Warnings []Message
	Duration time.Duration
	// Outputs holds the absolute paths of every emitted file
	Outputs  []string
	Metafile *Metafile
}

// Failed reports whether the compiler returned any error
func (r *Result) Failed() bool {
	return len(r.Errors) > 0
}

// Err returns a CompileError when the compilation failed
func (r *Result) Err() error {
	if !r.Failed() {
		return nil
	}
	return &CompileError{Messages: r.Errors}
}

// CompileError carries the compiler's error messages
type CompileError struct {
	Messages []Message
}

func (e *CompileError) Error() string {
	switch len(e.Messages) {
	case 0:
		return "compilation failed"
	case 1:
		return "compilation failed: " + e.Messages[0].String()
	default:
		return fmt.Sprintf("compilation failed with %d errors: %s", len(e.Messages), e.Messages[0].String())
	}
}

// Compiler produces builds. Build runs one compilation; Watch runs one
// immediately and another after every source change until ctx is done,
// then closes the channel.
type Compiler interface {
	Build(ctx context.Context) (*Result, error)
	Watch(ctx context.Context) (<-chan Result, error)
}

// Options configures a compilation
type Options struct {
	Entries    []string
	WorkingDir string
	SourceDir  string
	OutputDir  string
	PublicPath string
	Target     string
	Use        string
	Style      string
	Define     map[string]string
	Debug      bool

	// WatchDebounce is the quiet period after a source change before rebuilding
	WatchDebounce time.Duration
}
