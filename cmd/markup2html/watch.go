package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-markup2html/internal/assets"
	"github.com/alnah/go-markup2html/internal/watch"
)

// runWatch converts its input once, then again whenever a source changes,
// until interrupted.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseWatchFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(&flags.common, env)
	if err != nil {
		return err
	}
	flags.renderer.apply(cfg)
	flags.out.apply(cfg)
	if err := finishSettings(cfg, &flags.common); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional)
	if err != nil {
		return err
	}
	outputPath := flags.out.output
	if outputPath == "" {
		outputPath = cfg.Output.DefaultDir
	}
	info, err := os.Stat(inputPath)
	if err != nil {
		return err
	}

	files, err := discoverFiles(inputPath, outputPath)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	writer, err := newPageWriter(cfg.Output, assets.NewResolver())
	if err != nil {
		return err
	}
	logger := newLogger(env.Stderr, cfg.Log)
	conv, err := newConverter(cfg, logger)
	if err != nil {
		return err
	}

	w, err := watch.New(flags.delay, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	// targets maps absolute source paths to their output path.
	targets := make(map[string]FileToConvert, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f.InputPath)
		if err != nil {
			return err
		}
		targets[abs] = f
	}
	if info.IsDir() {
		// Only the top directory is watched for files created later.
		if err := w.AddDir(inputPath); err != nil {
			return err
		}
		for _, f := range files {
			if err := w.AddFile(f.InputPath); err != nil {
				return err
			}
		}
	} else if err := w.AddFile(inputPath); err != nil {
		return err
	}

	report := func(r ConversionResult) {
		switch {
		case r.Err != nil:
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err, cfg))
		case !flags.common.quiet:
			fmt.Fprintf(env.Stdout, "[%s] Updated %s\n", env.Now().Format(time.TimeOnly), r.OutputPath)
		}
	}

	for _, f := range files {
		report(convertFile(ctx, conv, f, writer, env.Now))
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Watching %s (Ctrl+C to stop)\n", inputPath)
	}

	return w.Run(ctx, func(ctx context.Context, paths []string) error {
		for _, p := range paths {
			f, ok := targets[p]
			if !ok {
				if !info.IsDir() || !isMarkupFile(p) {
					continue
				}
				f = FileToConvert{InputPath: p, OutputPath: resolveOutputPath(p, outputPath, absOrSelf(inputPath))}
				targets[p] = f
			}
			report(convertFile(ctx, conv, f, writer, env.Now))
		}
		return nil
	})
}

// absOrSelf returns the absolute form of path, or path itself on error.
func absOrSelf(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
