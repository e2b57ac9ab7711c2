package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-markup2html/internal/config"
)

// ErrUsage wraps flag parsing and argument count errors.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// rendererFlags selects and bounds the renderer.
type rendererFlags struct {
	engine   string
	command  string
	timeout  string
	cacheDir string
}

// outputFlags controls how converted HTML is written.
type outputFlags struct {
	output     string
	baseURL    string
	standalone bool
	css        string
}

// convertFlags holds flags for the convert command.
type convertFlags struct {
	common   commonFlags
	renderer rendererFlags
	out      outputFlags
	workers  int
}

// watchFlags holds flags for the watch command.
type watchFlags struct {
	common   commonFlags
	renderer rendererFlags
	out      outputFlags
	delay    time.Duration
}

// sanitizeFlags holds flags for the sanitize command.
type sanitizeFlags struct {
	common   commonFlags
	cacheDir string
	output   string
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and debug logs")
}

// addRendererFlags adds renderer selection flags to a FlagSet.
func addRendererFlags(fs *flag.FlagSet, f *rendererFlags) {
	fs.StringVar(&f.engine, "engine", "", "rendering engine: github-markup or goldmark")
	fs.StringVar(&f.command, "renderer", "", "renderer executable (default github-markup)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "renderer timeout (e.g., 3s, 10s)")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "scratch and sanitizer cache directory")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVar(&f.baseURL, "base-url", "", "rebase relative links and images against this URL")
	fs.BoolVar(&f.standalone, "standalone", false, "wrap output in a complete HTML page")
	fs.StringVar(&f.css, "css", "", "built-in style or CSS file for standalone pages")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseFlagSet parses args, wrapping errors in ErrUsage. flag.ErrHelp is
// returned unwrapped so runMain can exit successfully.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newFlagSet("convert", stderr, printConvertUsage)

	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	addCommonFlags(fs, &f.common)
	addRendererFlags(fs, &f.renderer)
	addOutputFlags(fs, &f.out)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseWatchFlags parses watch command flags and returns positional args.
func parseWatchFlags(args []string, stderr io.Writer) (*watchFlags, []string, error) {
	f := &watchFlags{}
	fs := newFlagSet("watch", stderr, printWatchUsage)

	fs.DurationVar(&f.delay, "delay", 0, "quiet period before re-converting (default 200ms)")
	addCommonFlags(fs, &f.common)
	addRendererFlags(fs, &f.renderer)
	addOutputFlags(fs, &f.out)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseSanitizeFlags parses sanitize command flags and returns positional args.
func parseSanitizeFlags(args []string, stderr io.Writer) (*sanitizeFlags, []string, error) {
	f := &sanitizeFlags{}
	fs := newFlagSet("sanitize", stderr, printSanitizeUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "sanitizer cache directory")
	addCommonFlags(fs, &f.common)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", stderr, printDoctorUsage)

	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	fs.StringVarP(&f.common.config, "config", "c", "", "config file name or path")

	if err := parseFlagSet(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: doctor takes no arguments", ErrUsage)
	}
	return f, nil
}

// apply merges renderer flags into cfg. CLI wins over env and file.
func (f *rendererFlags) apply(cfg *config.Config) {
	if f.engine != "" {
		cfg.Renderer.Engine = f.engine
	}
	if f.command != "" {
		cfg.Renderer.Command = f.command
	}
	if f.timeout != "" {
		cfg.Renderer.Timeout = f.timeout
	}
	if f.cacheDir != "" {
		cfg.Cache.Dir = f.cacheDir
	}
}

// apply merges output flags into cfg. -o is resolved per command, since it
// may name a file or a directory.
func (f *outputFlags) apply(cfg *config.Config) {
	if f.baseURL != "" {
		cfg.Output.BaseURL = f.baseURL
	}
	if f.standalone {
		cfg.Output.Standalone = true
	}
	if f.css != "" {
		cfg.Output.CSS = f.css
		cfg.Output.Standalone = true
	}
}
