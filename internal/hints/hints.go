// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"

	"github.com/alnah/go-markup2html/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForRendererNotFound returns hints for a renderer executable missing from PATH.
func ForRendererNotFound(command string) string {
	var hints []string

	if command == "" || command == "github-markup" {
		if IsInContainer() {
			hints = append(hints, "add `gem install github-markup` to the image")
		} else {
			hints = append(hints, "install it with `gem install github-markup`")
		}
	}
	hints = append(hints, "set --renderer or MARKUP2HTML_RENDERER to its path")
	hints = append(hints, "use --engine goldmark for Markdown only")

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow renders.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForUnsupportedFormat returns a hint for formats the goldmark engine rejects.
func ForUnsupportedFormat() string {
	return format("goldmark renders Markdown only; use --engine github-markup for other formats")
}

// ForCacheDir returns hints for an unusable scratch/cache directory.
func ForCacheDir(dir string) string {
	hint := "create it and make it writable, or set --cache-dir / MARKUP2HTML_CACHE_DIR"
	if dir != "" {
		hint = dir + ": " + hint
	}
	return format(hint)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/markup2html/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/markup2html") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
