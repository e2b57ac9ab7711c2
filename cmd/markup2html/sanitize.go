package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	markup2html "github.com/alnah/go-markup2html"
)

// runSanitize sanitizes HTML read from a file or stdin.
func runSanitize(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseSanitizeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected at most one input, got %d", ErrUsage, len(positional))
	}

	cfg, err := loadSettings(&flags.common, env)
	if err != nil {
		return err
	}
	if flags.cacheDir != "" {
		cfg.Cache.Dir = flags.cacheDir
	}
	if err := finishSettings(cfg, &flags.common); err != nil {
		return err
	}

	limit := cfg.Renderer.MaxInputBytes
	if limit <= 0 {
		limit = markup2html.DefaultMaxInputBytes
	}

	in := env.Stdin
	name := "stdin"
	if len(positional) == 1 && positional[0] != "-" {
		name = positional[0]
		f, err := os.Open(name) // #nosec G304 -- input path is user-provided
		if err != nil {
			return fmt.Errorf("%w: %w", markup2html.ErrReadInput, err)
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(io.LimitReader(in, limit+1))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", markup2html.ErrReadInput, name, err)
	}
	if int64(len(data)) > limit {
		return fmt.Errorf("%w: %s exceeds %d bytes", markup2html.ErrInputTooLarge, name, limit)
	}

	conv, err := newConverter(cfg, newLogger(env.Stderr, cfg.Log))
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	safe := conv.Sanitize(string(data))

	if flags.output == "" {
		_, err = io.WriteString(env.Stdout, safe)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(flags.output), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating directory: %w", ErrWriteOutput, err)
	}
	if err := os.WriteFile(flags.output, []byte(safe), filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}
