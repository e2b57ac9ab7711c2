package render

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for rendering.
var (
	ErrRendererTimeout   = errors.New("renderer timed out")
	ErrRendererExecution = errors.New("renderer failed")
	ErrUnsupportedFormat = errors.New("unsupported markup format")
	ErrReadInput         = errors.New("cannot read input")
	ErrOutputTooLarge    = errors.New("renderer output exceeds limit")
	ErrUsageBanner       = errors.New("renderer printed its usage banner")
)

// RenderError carries the diagnostics of a failed renderer process.
// It matches Kind (ErrRendererTimeout or ErrRendererExecution) and the
// underlying cause with errors.Is.
type RenderError struct {
	Kind     error
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int // -1 if the process did not exit on its own
	Err      error
}

func (e *RenderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %s", e.Kind, e.Command)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, ": %s", firstLine(s))
	}
	return b.String()
}

func (e *RenderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
