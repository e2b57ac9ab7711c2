package assets

// Notes:
// - EmbeddedLoader: we test the built-in styles and name validation.
// - Resolver: we test the path/name split against temp files.
// - HighlightCSS: we only check for the class-based selectors goldmark emits.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestEmbeddedLoader_LoadStyle - Built-in styles and validation
// ---------------------------------------------------------------------------

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		styleName string
		wantErr   error
	}{
		{"default style", DefaultStyle, nil},
		{"plain style", "plain", nil},
		{"nonexistent style", "nonexistent", ErrStyleNotFound},
		{"valid name with hyphen", "my-style", ErrStyleNotFound},
		{"empty name", "", ErrInvalidAssetName},
		{"traversal with slash", "../secret", ErrInvalidAssetName},
		{"traversal with backslash", "..\\secret", ErrInvalidAssetName},
		{"name with dot", "style.name", ErrInvalidAssetName},
		{"absolute path", "/etc/passwd", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			css, err := EmbeddedLoader{}.LoadStyle(tt.styleName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.styleName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.styleName, err)
			}
			if !strings.Contains(css, "article.markup") {
				t.Errorf("style %q should target the page wrapper, got %q", tt.styleName, css)
			}
		})
	}
}

func TestLoadStyle_NotFoundListsNames(t *testing.T) {
	t.Parallel()

	_, err := EmbeddedLoader{}.LoadStyle("missing")
	if err == nil || !strings.Contains(err.Error(), "github, plain") {
		t.Errorf("error should list available styles, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestNames - Built-in style listing
// ---------------------------------------------------------------------------

func TestNames(t *testing.T) {
	t.Parallel()

	names := Names()
	if !slices.Equal(names, []string{"github", "plain"}) {
		t.Errorf("Names() = %v, want [github plain]", names)
	}
	if !slices.Contains(names, DefaultStyle) {
		t.Errorf("DefaultStyle %q is not built in", DefaultStyle)
	}
}

// ---------------------------------------------------------------------------
// TestResolver_LoadStyle - Path or built-in name
// ---------------------------------------------------------------------------

func TestResolver_LoadStyle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	custom := filepath.Join(dir, "site.css")
	if err := os.WriteFile(custom, []byte("body { color: red; }"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr error
	}{
		{"file path", custom, "body { color: red; }", nil},
		{"built-in name", "plain", "Georgia", nil},
		{"missing file", filepath.Join(dir, "missing.css"), "", ErrAssetRead},
		{"bare css file name is a path", "missing-in-cwd.css", "", ErrAssetRead},
		{"unknown name", "fancy", "", ErrStyleNotFound},
	}

	r := NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.LoadStyle(tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.ref, err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("LoadStyle(%q) = %q, want it to contain %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestResolver_MissingFileWrapsNotExist(t *testing.T) {
	t.Parallel()

	_, err := NewResolver().LoadStyle(filepath.Join(t.TempDir(), "none.css"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist in chain", err)
	}
}

// ---------------------------------------------------------------------------
// TestIsStylePath - Reference classification
// ---------------------------------------------------------------------------

func TestIsStylePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref  string
		want bool
	}{
		{"github", false},
		{"plain", false},
		{"site.css", true},
		{"SITE.CSS", true},
		{"./site", true},
		{"styles/site.css", true},
		{`C:\styles\site.css`, true},
	}

	for _, tt := range tests {
		if got := IsStylePath(tt.ref); got != tt.want {
			t.Errorf("IsStylePath(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestHighlightCSS - Class-based syntax highlighting rules
// ---------------------------------------------------------------------------

func TestHighlightCSS(t *testing.T) {
	t.Parallel()

	css, err := HighlightCSS(HighlightStyle)
	if err != nil {
		t.Fatalf("HighlightCSS: %v", err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Errorf("CSS should style the .chroma wrapper, got %q", css)
	}
	if !strings.Contains(css, ".chroma .k") {
		t.Errorf("CSS should style keyword spans, got %q", css)
	}
}
