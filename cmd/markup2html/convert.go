package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	markup2html "github.com/alnah/go-markup2html"
	"github.com/alnah/go-markup2html/internal/assets"
	"github.com/alnah/go-markup2html/internal/config"
)

// ErrNoInput reports a convert or watch invocation without an input path.
var ErrNoInput = errors.New("no input specified")

// FileConverter is the part of the library converter used by the CLI.
type FileConverter interface {
	ConvertFile(ctx context.Context, path string) (string, error)
}

// Compile-time interface implementation check.
var _ FileConverter = (*markup2html.Converter)(nil)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// ResultSummary counts batch outcomes.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadSettings(&flags.common, env)
	if err != nil {
		return err
	}
	flags.renderer.apply(cfg)
	flags.out.apply(cfg)
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
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

	files, err := discoverFiles(inputPath, outputPath)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		if !flags.common.quiet {
			fmt.Fprintf(env.Stderr, "no markup files found in %s\n", inputPath)
		}
		return nil
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

	workers := markup2html.ResolveWorkers(cfg.Workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Converting %d file(s) with %d worker(s)\n", len(files), min(workers, len(files)))
	}

	results := convertBatch(ctx, conv, workers, files, writer, env)
	failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, cfg, env)
	if failed > 0 {
		return &reportedError{err: firstError(results)}
	}
	return nil
}

// resolveInputPath returns the single positional input.
func resolveInputPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrNoInput
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(args))
	}
}

// convertBatch processes files concurrently with a bounded number of workers.
// The converter is shared, since it is safe for concurrent use.
func convertBatch(ctx context.Context, conv FileConverter, workers int, files []FileToConvert, w *pageWriter, env *Environment) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(workers, len(files))
	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], w, env.Now)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv FileConverter, f FileToConvert, w *pageWriter, now func() time.Time) ConversionResult {
	start := now()
	result := ConversionResult{InputPath: f.InputPath, OutputPath: f.OutputPath}

	fragment, err := conv.ConvertFile(ctx, f.InputPath)
	if err == nil {
		err = w.write(ctx, fragment, f.InputPath, f.OutputPath)
	}
	result.Err = err
	result.Duration = now().Sub(start)
	return result
}

// countResults tallies successes and failures.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// firstError returns the first failure in input order.
func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// printResultsWithWriter outputs conversion results and returns the number
// of failures.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, cfg *config.Config, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err, cfg))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
