package fileutil_test

// Notes:
// - TestCheckWritableDir_ReadOnly is skipped when running as root, because
//   root ignores directory permission bits.
// - The WriteString and Close error branches in WriteScratchFile are not
//   exercised: triggering disk write failures is platform-specific.

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-markup2html/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{name: "markdown", extension: "md"},
		{name: "restructured text", extension: "rst"},
		{name: "empty means none", extension: ""},
		{name: "forward slash", extension: "../etc/passwd", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "backslash", extension: "..\\windows", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "null byte", extension: "md\x00exe", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteScratchFile - Scratch file creation
// ---------------------------------------------------------------------------

func TestWriteScratchFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		extension string
	}{
		{name: "markdown file", content: "# Title", extension: "md"},
		{name: "no extension", content: "a < b", extension: ""},
		{name: "empty content", content: "", extension: "rst"},
		{name: "unicode content", content: "caf\u00e9 \u2014 na\u00efve", extension: "md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path, cleanup, err := fileutil.WriteScratchFile(dir, tt.content, tt.extension)
			if err != nil {
				t.Fatalf("WriteScratchFile() error = %v", err)
			}
			defer cleanup()

			if filepath.Dir(path) != dir {
				t.Errorf("scratch file %q not created in %q", path, dir)
			}
			if !strings.HasPrefix(filepath.Base(path), "markup-") {
				t.Errorf("path %q does not start with 'markup-'", path)
			}

			gotExt := strings.TrimPrefix(filepath.Ext(path), ".")
			if gotExt != tt.extension {
				t.Errorf("extension = %q, want %q", gotExt, tt.extension)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read scratch file: %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("content = %q, want %q", string(data), tt.content)
			}
		})
	}
}

func TestWriteScratchFile_UniqueNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	seen := make(map[string]bool)

	for i := 0; i < 20; i++ {
		path, cleanup, err := fileutil.WriteScratchFile(dir, "x", "")
		if err != nil {
			t.Fatalf("WriteScratchFile() error = %v", err)
		}
		defer cleanup()

		if seen[path] {
			t.Fatalf("duplicate scratch path %q", path)
		}
		seen[path] = true
	}
}

func TestWriteScratchFile_Cleanup(t *testing.T) {
	t.Parallel()

	path, cleanup, err := fileutil.WriteScratchFile(t.TempDir(), "content", "md")
	if err != nil {
		t.Fatalf("WriteScratchFile() error = %v", err)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("scratch file still exists after cleanup at %s", path)
	}

	// Second call must not panic.
	cleanup()
}

func TestWriteScratchFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		dir       string
		extension string
		wantErr   error
	}{
		{name: "empty dir", dir: "", extension: "md", wantErr: fileutil.ErrEmptyDir},
		{name: "path traversal", dir: os.TempDir(), extension: "../foo", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, cleanup, err := fileutil.WriteScratchFile(tt.dir, "content", tt.extension)
			if cleanup != nil {
				defer cleanup()
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("WriteScratchFile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteScratchFile_MissingDir(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "does-not-exist")
	_, cleanup, err := fileutil.WriteScratchFile(missing, "content", "")
	if cleanup != nil {
		defer cleanup()
	}
	if err == nil {
		t.Fatal("expected error for missing directory, got nil")
	}
	if !strings.Contains(err.Error(), "creating scratch file") {
		t.Errorf("error = %q, want it to mention 'creating scratch file'", err)
	}
}

// ---------------------------------------------------------------------------
// TestCheckWritableDir - Directory checks
// ---------------------------------------------------------------------------

func TestCheckWritableDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "writable directory", path: dir},
		{name: "empty path", path: "", wantErr: fileutil.ErrEmptyDir},
		{name: "missing directory", path: filepath.Join(dir, "missing"), wantErr: fileutil.ErrNotDirectory},
		{name: "regular file", path: file, wantErr: fileutil.ErrNotDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.CheckWritableDir(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckWritableDir(%q) = %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestCheckWritableDir_LeavesNoProbe(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := fileutil.CheckWritableDir(dir); err != nil {
		t.Fatalf("CheckWritableDir() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty directory, found %d entries", len(entries))
	}
}

func TestCheckWritableDir_ReadOnly(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}

	dir := t.TempDir()
	if err := os.Chmod(dir, 0o500); err != nil {
		t.Fatalf("Chmod() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	err := fileutil.CheckWritableDir(dir)
	if !errors.Is(err, fileutil.ErrDirNotWritable) {
		t.Errorf("CheckWritableDir() = %v, want %v", err, fileutil.ErrDirNotWritable)
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - File existence check
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "README.md")
	if err := os.WriteFile(file, []byte("# x"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "existing file", path: file, want: true},
		{name: "directory", path: dir, want: false},
		{name: "missing", path: filepath.Join(dir, "nope"), want: false},
		{name: "empty", path: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath - File path detection
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{input: "production", want: false},
		{input: "./site.yaml", want: true},
		{input: "/etc/markup2html/site.yaml", want: true},
		{input: "C:\\config\\site.yaml", want: true},
		{input: "name.with.dots", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsFilePath(tt.input); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
