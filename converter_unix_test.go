//go:build unix

package markup2html

// Notes:
// - Only a named pipe is exercised: opening it for reading would block until
//   a writer appears, so a passing test proves the file is never opened.

import (
	"context"
	"errors"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestConvertFile_NonRegular - Devices and pipes are rejected before reading
// ---------------------------------------------------------------------------

func TestConvertFile_NonRegular(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name: "named pipe without extension",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "fifo")
				if err := syscall.Mkfifo(path, 0o600); err != nil {
					t.Skipf("mkfifo: %v", err)
				}
				return path
			},
		},
		{
			name:  "character device",
			setup: func(t *testing.T) string { return "/dev/zero" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv := newTestConverter(t)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			got, err := conv.ConvertFile(ctx, tt.setup(t))
			if !errors.Is(err, ErrReadInput) {
				t.Errorf("ConvertFile() error = %v, want ErrReadInput", err)
			}
			if got != "" {
				t.Errorf("ConvertFile() output = %q, want empty", got)
			}
		})
	}
}
