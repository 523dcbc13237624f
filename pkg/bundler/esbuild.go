package bundler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"
)

const defaultWatchDebounce = 100 * time.Millisecond

var targets = map[string]api.Target{
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"es2023": api.ES2023,
	"es2024": api.ES2024,
	"esnext": api.ESNext,
}

// ParseTarget maps an ECMAScript version name to an esbuild target
func ParseTarget(s string) (api.Target, error) {
	t, ok := targets[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return api.DefaultTarget, fmt.Errorf("unknown target: %s", s)
	}
	return t, nil
}

// staticLoaders are copied to static/media and referenced by URL
var staticLoaders = []string{
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".avif", ".svg", ".ico",
	".woff", ".woff2", ".ttf", ".eot",
}

// ESBuild compiles the project with esbuild's Go API
type ESBuild struct {
	opts Options
}

func NewESBuild(opts Options) *ESBuild {
	if opts.WatchDebounce <= 0 {
		opts.WatchDebounce = defaultWatchDebounce
	}
	return &ESBuild{opts: opts}
}

// BuildOptions translates Options into esbuild options
func (b *ESBuild) BuildOptions() (api.BuildOptions, error) {
	o := b.opts

	target, err := ParseTarget(o.Target)
	if err != nil {
		return api.BuildOptions{}, err
	}

	mode := "production"
	if o.Debug {
		mode = "development"
	}
	define := map[string]string{
		"process.env.NODE_ENV": strconv.Quote(mode),
	}
	for k, v := range o.Define {
		define[k] = v
	}

	loader := map[string]api.Loader{
		".js": api.LoaderJSX,
	}
	for _, ext := range staticLoaders {
		loader[ext] = api.LoaderFile
	}
	if o.Style == "css-modules" {
		loader[".module.css"] = api.LoaderLocalCSS
	}

	hash := ".[hash]"
	if o.Debug {
		hash = ""
	}

	opts := api.BuildOptions{
		EntryPoints:   o.Entries,
		AbsWorkingDir: o.WorkingDir,
		Outdir:        o.OutputDir,
		PublicPath:    o.PublicPath,
		EntryNames:    "static/[ext]/[name]" + hash,
		ChunkNames:    "static/js/[name]" + hash,
		AssetNames:    "static/media/[name]" + hash,
		Bundle:        true,
		Write:         true,
		Metafile:      true,
		Format:        api.FormatESModule,
		Splitting:     true,
		Platform:      api.PlatformBrowser,
		Target:        target,
		Loader:        loader,
		Define:        define,
		TreeShaking:   api.TreeShakingTrue,
		LogLevel:      api.LogLevelSilent,
	}

	if o.Debug {
		opts.Sourcemap = api.SourceMapLinked
	} else {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
	}

	switch o.Use {
	case "react", "preact":
		opts.JSX = api.JSXAutomatic
		opts.JSXImportSource = o.Use
		opts.JSXDev = o.Debug
	default:
		opts.JSX = api.JSXTransform
	}

	return opts, nil
}

// Build runs a single compilation. Compiler errors are reported in the
// result; the returned error covers failures to run the compiler at all.
func (b *ESBuild) Build(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts, err := b.BuildOptions()
	if err != nil {
		return nil, err
	}

	log.Debug().Strs("entries", b.opts.Entries).Str("outdir", b.opts.OutputDir).Msg("Running esbuild")

	start := time.Now()
	res := api.Build(opts)
	return b.convert(res, time.Since(start))
}

// Watch builds once, then rebuilds incrementally whenever a file below the
// source directory changes
func (b *ESBuild) Watch(ctx context.Context) (<-chan Result, error) {
	opts, err := b.BuildOptions()
	if err != nil {
		return nil, err
	}

	bctx, cerr := api.Context(opts)
	if cerr != nil {
		return nil, &CompileError{Messages: convertMessages(cerr.Errors)}
	}

	watcher, err := NewSourceWatcher(b.opts.SourceDir, []string{b.opts.OutputDir}, b.opts.WatchDebounce)
	if err != nil {
		bctx.Dispose()
		return nil, err
	}

	results := make(chan Result)

	go func() {
		defer close(results)
		defer bctx.Dispose()
		defer watcher.Close()

		rebuild := func() bool {
			start := time.Now()
			res, err := b.convert(bctx.Rebuild(), time.Since(start))
			if err != nil {
				res = &Result{Errors: []Message{{Text: err.Error()}}}
			}
			select {
			case results <- *res:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !rebuild() {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Changes():
				if !ok {
					return
				}
				log.Debug().Msg("Source changed, rebuilding")
				if !rebuild() {
					return
				}
			}
		}
	}()

	return results, nil
}

func (b *ESBuild) convert(res api.BuildResult, duration time.Duration) (*Result, error) {
	result := &Result{
		Errors:   convertMessages(res.Errors),
		Warnings: convertMessages(res.Warnings),
		Duration: duration,
	}
	if result.Failed() {
		return result, nil
	}

	meta, err := ParseMetafile(res.Metafile)
	if err != nil {
		return nil, err
	}
	result.Metafile = meta
	result.Outputs = meta.OutputPaths(b.opts.WorkingDir)

	return result, nil
}

func convertMessages(msgs []api.Message) []Message {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		msg := Message{Text: m.Text}
		if m.Location != nil {
			msg.File = m.Location.File
			msg.Line = m.Location.Line
			msg.Column = m.Location.Column
			msg.LineText = m.Location.LineText
		}
		for _, n := range m.Notes {
			msg.Notes = append(msg.Notes, n.Text)
		}
		out = append(out, msg)
	}
	return out
}

// FormatMessages renders messages the way esbuild prints them on the console
func FormatMessages(msgs []Message, warnings bool, color bool) []string {
	apiMsgs := make([]api.Message, 0, len(msgs))
	for _, m := range msgs {
		msg := api.Message{Text: m.Text}
		if m.File != "" {
			msg.Location = &api.Location{
				File:     m.File,
				Line:     m.Line,
				Column:   m.Column,
				LineText: m.LineText,
			}
		}
		for _, n := range m.Notes {
			msg.Notes = append(msg.Notes, api.Note{Text: n})
		}
		apiMsgs = append(apiMsgs, msg)
	}

	kind := api.ErrorMessage
	if warnings {
		kind = api.WarningMessage
	}

	return api.FormatMessages(apiMsgs, api.FormatMessagesOptions{
		Kind:          kind,
		Color:         color,
		TerminalWidth: 100,
	})
}
