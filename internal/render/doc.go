// Package render turns a markup file into unsafe HTML.
//
// Plain text (no extension or .txt) is escaped and wrapped in <pre> without
// starting a process. Every other format goes to a MarkupRenderer: by default
// the external github-markup command, run under a hard wall-clock timeout,
// or optionally the in-process goldmark engine for Markdown.
//
// Output of this package is never safe to embed; callers must sanitize it.
package render
