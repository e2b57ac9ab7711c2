package main

// Notes:
// - parse*Flags: we test shorthand and long forms, positional args and
//   ErrUsage wrapping. pflag itself is not re-tested.
// - apply: we test that only explicitly set flags override config.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"testing"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-markup2html/internal/config"
)

// ---------------------------------------------------------------------------
// TestParseConvertFlags - Convert flag parsing
// ---------------------------------------------------------------------------

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	f, args, err := parseConvertFlags([]string{
		"docs", "-o", "site", "-w", "4", "-t", "10s",
		"--engine", "goldmark", "--renderer", "/bin/gm", "--cache-dir", "/c",
		"--base-url", "https://example.com/", "--css", "s.css", "-q",
	}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseConvertFlags: %v", err)
	}

	if len(args) != 1 || args[0] != "docs" {
		t.Errorf("args = %v, want [docs]", args)
	}
	if f.out.output != "site" || f.workers != 4 || !f.common.quiet {
		t.Errorf("flags = %+v", f)
	}
	want := rendererFlags{engine: "goldmark", command: "/bin/gm", timeout: "10s", cacheDir: "/c"}
	if f.renderer != want {
		t.Errorf("renderer = %+v, want %+v", f.renderer, want)
	}
	if f.out.baseURL != "https://example.com/" || f.out.css != "s.css" {
		t.Errorf("output = %+v", f.out)
	}
}

func TestParseConvertFlags_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown flag", []string{"--nope"}, ErrUsage},
		{"bad workers", []string{"-w", "many"}, ErrUsage},
		{"help", []string{"-h"}, flag.ErrHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stderr bytes.Buffer
			_, _, err := parseConvertFlags(tt.args, &stderr)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseWatchFlags(t *testing.T) {
	t.Parallel()

	f, args, err := parseWatchFlags([]string{"README.md", "--delay", "1s", "--standalone"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseWatchFlags: %v", err)
	}
	if len(args) != 1 || f.delay != time.Second || !f.out.standalone {
		t.Errorf("flags = %+v, args = %v", f, args)
	}
}

func TestParseSanitizeFlags(t *testing.T) {
	t.Parallel()

	f, args, err := parseSanitizeFlags([]string{"-", "-o", "safe.html", "--cache-dir", "/c"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseSanitizeFlags: %v", err)
	}
	if len(args) != 1 || args[0] != "-" || f.output != "safe.html" || f.cacheDir != "/c" {
		t.Errorf("flags = %+v, args = %v", f, args)
	}
}

func TestParseDoctorFlags(t *testing.T) {
	t.Parallel()

	f, err := parseDoctorFlags([]string{"--json", "-c", "team"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseDoctorFlags: %v", err)
	}
	if !f.json || f.common.config != "team" {
		t.Errorf("flags = %+v", f)
	}

	if _, err := parseDoctorFlags([]string{"extra"}, &bytes.Buffer{}); !errors.Is(err, ErrUsage) {
		t.Errorf("error = %v, want ErrUsage", err)
	}
}

// ---------------------------------------------------------------------------
// TestFlagsApply - Flag merge into config
// ---------------------------------------------------------------------------

func TestFlagsApply(t *testing.T) {
	t.Parallel()

	t.Run("empty flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Renderer.Command = "from-config"
		cfg.Output.BaseURL = "https://config.example/"
		want := *cfg

		(&rendererFlags{}).apply(cfg)
		(&outputFlags{}).apply(cfg)

		if *cfg != want {
			t.Errorf("config changed: %+v", *cfg)
		}
	})

	t.Run("css implies standalone", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		(&outputFlags{css: "site.css"}).apply(cfg)

		if !cfg.Output.Standalone || cfg.Output.CSS != "site.css" {
			t.Errorf("output = %+v", cfg.Output)
		}
	})
}
