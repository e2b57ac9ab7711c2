package render

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/alnah/go-markup2html/internal/process"
)

// Output limits for captured process streams.
const (
	DefaultMaxOutputBytes = 16 << 20
	maxStderrBytes        = 64 << 10
)

// waitDelay bounds how long Wait blocks on pipes held open by orphaned
// grandchildren after the renderer itself was killed.
const waitDelay = 500 * time.Millisecond

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec. When ctx ends, the
// process and every child in its group are killed.
type ExecRunner struct {
	// MaxOutputBytes caps captured stdout. Zero means DefaultMaxOutputBytes.
	MaxOutputBytes int
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	process.Isolate(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}
	cmd.WaitDelay = waitDelay

	limit := r.MaxOutputBytes
	if limit <= 0 {
		limit = DefaultMaxOutputBytes
	}
	stdout := &limitedBuffer{limit: limit}
	stderr := &limitedBuffer{limit: maxStderrBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil && stdout.truncated {
		err = ErrOutputTooLarge
	}
	return stdout.String(), stderr.String(), err
}

// limitedBuffer keeps the first limit bytes written and silently drops the
// rest, so a runaway process cannot exhaust memory.
type limitedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if room := b.limit - b.buf.Len(); room < len(p) {
		b.truncated = true
		if room <= 0 {
			return n, nil
		}
		p = p[:room]
	}
	b.buf.Write(p)
	return n, nil
}

func (b *limitedBuffer) String() string {
	return b.buf.String()
}
