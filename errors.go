package markup2html

import (
	"errors"

	"github.com/alnah/go-markup2html/internal/pipeline"
	"github.com/alnah/go-markup2html/internal/render"
	"github.com/alnah/go-markup2html/internal/sanitize"
)

// Sentinel errors for library operations.
var (
	ErrScratchFile       = errors.New("scratch file error")
	ErrRendererTimeout   = render.ErrRendererTimeout
	ErrRendererExecution = render.ErrRendererExecution
	ErrConfiguration     = sanitize.ErrConfiguration

	// Input errors.
	ErrReadInput         = render.ErrReadInput
	ErrInputTooLarge     = errors.New("input exceeds size limit")
	ErrUnsupportedFormat = render.ErrUnsupportedFormat

	// Option errors, always wrapped together with ErrConfiguration.
	ErrInvalidBaseURL = pipeline.ErrInvalidBaseURL
	ErrInvalidPolicy  = sanitize.ErrInvalidPolicy
	ErrUnknownEngine  = errors.New("unknown rendering engine")
)

// RenderError carries the diagnostics of a failed renderer process.
type RenderError = render.RenderError
