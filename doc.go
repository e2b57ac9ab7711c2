// Package markup2html converts project documentation markup (README.md,
// README.rst, notes.txt, ...) into sanitized HTML that is safe to embed in a
// page body.
//
// # Quick Start
//
// Create a converter over a writable directory, then convert a file:
//
//	conv, err := markup2html.NewConverter("/var/cache/markup2html")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	safe, err := conv.ConvertFile(ctx, "README.rst")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The directory holds short-lived scratch files for string conversions and
// the sanitizer definition cache. It must already exist; the converter never
// creates or removes it.
//
// # Conversion Pipeline
//
//  1. Format dispatch by file extension: no extension or .txt is escaped
//     and wrapped in <pre>; anything else goes to the markup renderer.
//  2. The default renderer runs github-markup as `github-markup <path>`
//     under a hard timeout (3s). The process group is killed on expiry.
//  3. Optional rebasing of relative image and link URLs (WithBaseURL).
//  4. Allow-list sanitization with bluemonday. Every successful result
//     passes through this stage.
//
// A failed conversion returns an empty string and an error; partial output
// is never returned.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := markup2html.NewConverter(dir,
//	    markup2html.WithTimeout(5*time.Second),
//	    markup2html.WithRendererCommand("/opt/bin/github-markup"),
//	    markup2html.WithLogger(slog.Default()),
//	)
//
// WithEngine(EngineGoldmark) swaps the external process for an in-process
// Markdown renderer; other formats then fail with ErrUnsupportedFormat.
//
// # Errors
//
// Match errors with errors.Is against ErrScratchFile, ErrRendererTimeout,
// ErrRendererExecution, ErrConfiguration and the other sentinels in this
// package. Renderer failures are *RenderError values that carry the
// process's stdout, stderr and exit code.
//
// # Concurrency
//
// A Converter is safe for concurrent use. Each string conversion gets its
// own scratch file, and the definition cache tolerates concurrent writers.
package markup2html
