package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-markup2html/internal/assets"
	"github.com/alnah/go-markup2html/internal/config"
	"github.com/alnah/go-markup2html/internal/pipeline"
)

// Sentinel errors for output handling.
var (
	ErrReadCSS     = errors.New("failed to read CSS file")
	ErrWriteOutput = errors.New("failed to write HTML file")
)

// pageWriter turns sanitized fragments into output files.
type pageWriter struct {
	standalone bool
	css        string
	injector   pipeline.CSSInjector
}

// newPageWriter loads the stylesheet for standalone pages: output.css as a
// path or built-in style name, else the default style, followed by the
// syntax highlighting rules.
func newPageWriter(out config.OutputConfig, styles assets.StyleLoader) (*pageWriter, error) {
	w := &pageWriter{standalone: out.Standalone, injector: &pipeline.CSSInjection{}}
	if !out.Standalone {
		return w, nil
	}

	ref := out.CSS
	if ref == "" {
		ref = assets.DefaultStyle
	}
	css, err := styles.LoadStyle(ref)
	if err != nil {
		if errors.Is(err, assets.ErrAssetRead) {
			return nil, fmt.Errorf("%w: %w", ErrReadCSS, err)
		}
		return nil, err
	}
	highlight, err := assets.HighlightCSS(assets.HighlightStyle)
	if err != nil {
		return nil, fmt.Errorf("generating highlight CSS: %w", err)
	}
	w.css = css + "\n" + highlight
	return w, nil
}

// render returns the bytes written for fragment converted from inputPath.
func (w *pageWriter) render(ctx context.Context, fragment, inputPath string) string {
	if !w.standalone {
		return fragment + "\n"
	}
	title := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	page := pipeline.WrapPage(fragment, title)
	return w.injector.InjectCSS(ctx, page, w.css)
}

// write stores fragment at outputPath, creating parent directories.
func (w *pageWriter) write(ctx context.Context, fragment, inputPath, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating directory: %w", ErrWriteOutput, err)
	}
	data := w.render(ctx, fragment, inputPath)
	if err := os.WriteFile(outputPath, []byte(data), filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}
