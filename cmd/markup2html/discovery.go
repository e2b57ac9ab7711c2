package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-markup2html/internal/config"
	"github.com/alnah/go-markup2html/internal/watch"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("unsupported markup extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// markupExtensions lists the formats picked up when scanning a directory.
// A single file may be converted whatever its extension.
var markupExtensions = map[string]bool{
	".md": true, ".markdown": true, ".mdown": true, ".mkd": true, ".mkdn": true,
	".rst": true, ".textile": true, ".rdoc": true, ".org": true,
	".creole": true, ".mediawiki": true, ".wiki": true,
	".asciidoc": true, ".adoc": true, ".asc": true, ".pod": true,
	".txt": true,
}

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// isMarkupFile reports whether a directory scan should convert path.
func isMarkupFile(path string) bool {
	return watch.Eligible(path) && markupExtensions[strings.ToLower(filepath.Ext(path))]
}

// discoverFiles finds all markup files to convert.
// outputPath may name a file (single input only) or a directory.
func discoverFiles(inputPath, outputPath string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if strings.EqualFold(filepath.Ext(inputPath), ".html") {
			return nil, fmt.Errorf("%w: %s is already HTML", ErrInvalidExtension, inputPath)
		}
		outPath := resolveOutputPath(inputPath, outputPath, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	if isHTMLPath(outputPath) {
		return nil, fmt.Errorf("%w: output %s must be a directory when converting %s", ErrInvalidExtension, outputPath, inputPath)
	}

	var files []FileToConvert
	seen := make(map[string]bool)
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkupFile(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputPath, inputPath)
		// README.md and README.rst would both become README.html.
		if seen[outPath] {
			outPath = strings.TrimSuffix(outPath, ".html") + filepath.Ext(path) + ".html"
		}
		seen[outPath] = true
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the HTML output path for a markup file.
func resolveOutputPath(inputPath, outputPath, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext) + ".html"

	if outputPath == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}

	if isHTMLPath(outputPath) {
		return outputPath
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputPath, filepath.Dir(relPath), base)
		}
	}

	return filepath.Join(outputPath, base)
}

// isHTMLPath reports whether path names an HTML file rather than a directory.
func isHTMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}
