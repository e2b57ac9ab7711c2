// Package fileutil provides scratch-file and directory helpers.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// scratchPrefix names every scratch file so stray ones are easy to spot.
const scratchPrefix = "markup-"

// Sentinel errors for file utility operations.
var (
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrEmptyDir               = errors.New("directory path cannot be empty")
	ErrNotDirectory           = errors.New("path is not a directory")
	ErrDirNotWritable         = errors.New("directory is not writable")
)

// WriteScratchFile creates a uniquely named file inside dir holding content.
// An empty extension yields a name without any extension.
// The returned cleanup removes the file and is safe to call more than once.
func WriteScratchFile(dir, content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}
	if dir == "" {
		return "", nil, ErrEmptyDir
	}

	pattern := scratchPrefix + "*"
	if extension != "" {
		pattern += "." + extension
	}

	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", nil, fmt.Errorf("creating scratch file: %w", err)
	}

	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := f.WriteString(content); writeErr != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing scratch file: %w", writeErr)
	}

	if closeErr := f.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing scratch file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in file names.
// Empty is allowed and means "no extension".
func ValidateExtension(extension string) error {
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// CheckWritableDir verifies that dir exists, is a directory, and accepts new
// files. It probes by creating and removing a file, since permission bits
// alone do not account for read-only mounts.
func CheckWritableDir(dir string) error {
	if dir == "" {
		return ErrEmptyDir
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotDirectory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDirNotWritable, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
