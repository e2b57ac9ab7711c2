package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/alnah/go-markup2html/internal/fileutil"
)

//go:embed styles/*.css
var styles embed.FS

// DefaultStyle is used by standalone pages that name no stylesheet.
const DefaultStyle = "github"

// StyleLoader loads a stylesheet by reference.
type StyleLoader interface {
	LoadStyle(ref string) (string, error)
}

// EmbeddedLoader loads built-in styles from the embedded filesystem.
type EmbeddedLoader struct{}

// LoadStyle returns the built-in style called name (without ".css").
func (EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q (available: %s)", ErrStyleNotFound, name, strings.Join(Names(), ", "))
	}
	return string(content), nil
}

// Resolver loads paths from disk and everything else from Embedded.
type Resolver struct {
	Embedded StyleLoader
}

// NewResolver returns a Resolver backed by the built-in styles.
func NewResolver() *Resolver {
	return &Resolver{Embedded: EmbeddedLoader{}}
}

// LoadStyle resolves ref as a file path or a built-in style name.
func (r *Resolver) LoadStyle(ref string) (string, error) {
	if !IsStylePath(ref) {
		return r.Embedded.LoadStyle(ref)
	}
	data, err := os.ReadFile(ref) // #nosec G304 -- stylesheet path is user-provided
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAssetRead, err)
	}
	return string(data), nil
}

// IsStylePath reports whether ref names a file rather than a built-in style.
func IsStylePath(ref string) bool {
	return fileutil.IsFilePath(ref) || strings.EqualFold(path.Ext(ref), ".css")
}

// Names lists the built-in styles, sorted.
func Names() []string {
	entries, err := fs.ReadDir(styles, "styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".css"))
	}
	sort.Strings(names)
	return names
}

// ValidateAssetName checks that a style name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty or contains path separators,
// dots (which could allow extension manipulation), or traversal characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// Compile-time interface checks.
var (
	_ StyleLoader = EmbeddedLoader{}
	_ StyleLoader = (*Resolver)(nil)
)
