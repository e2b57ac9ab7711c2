package render

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"al.essio.dev/pkg/shellescape"
)

// Defaults for the external renderer.
const (
	DefaultCommand = "github-markup"
	DefaultTimeout = 3 * time.Second
)

// CommandRenderer runs an external renderer as `<command> <path>` and
// returns its standard output.
type CommandRenderer struct {
	command string
	timeout time.Duration
	runner  CommandRunner
	logger  *slog.Logger
	usage   *regexp.Regexp
}

// NewCommandRenderer creates a CommandRenderer. Zero values select
// DefaultCommand, DefaultTimeout, an ExecRunner and a discarding logger.
func NewCommandRenderer(command string, timeout time.Duration, runner CommandRunner, logger *slog.Logger) *CommandRenderer {
	if command == "" {
		command = DefaultCommand
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if runner == nil {
		runner = &ExecRunner{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CommandRenderer{
		command: command,
		timeout: timeout,
		runner:  runner,
		logger:  logger,
		usage:   usagePattern(command),
	}
}

// usagePattern matches the banner github-markup prints, with exit status 0,
// when it cannot read its input: "usage: [dir/]<name> FILE".
func usagePattern(command string) *regexp.Regexp {
	name := regexp.QuoteMeta(filepath.Base(command))
	return regexp.MustCompile(`^usage: (\S*/)?` + name + ` FILE`)
}

// Command returns the renderer executable.
func (r *CommandRenderer) Command() string {
	return r.command
}

// Timeout returns the wall-clock limit for one invocation.
func (r *CommandRenderer) Timeout() time.Duration {
	return r.timeout
}

// Render implements MarkupRenderer.
func (r *CommandRenderer) Render(ctx context.Context, path string) (string, error) {
	cmdline := shellescape.QuoteCommand([]string{r.command, path})
	r.logger.Debug("running renderer", "command", cmdline, "timeout", r.timeout)

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	stdout, stderr, err := r.runner.Run(runCtx, r.command, path)
	if err != nil {
		// Caller cancellation is not a renderer fault.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		rerr := &RenderError{
			Kind:     ErrRendererExecution,
			Command:  cmdline,
			Stdout:   stdout,
			Stderr:   stderr,
			ExitCode: exitCode(err),
			Err:      err,
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			rerr.Kind = ErrRendererTimeout
			rerr.Err = context.DeadlineExceeded
			rerr.ExitCode = -1
		}
		return "", rerr
	}

	if r.usage.MatchString(stdout) {
		return "", &RenderError{
			Kind:    ErrRendererExecution,
			Command: cmdline,
			Stdout:  stdout,
			Stderr:  stderr,
			Err:     ErrUsageBanner,
		}
	}

	return stdout, nil
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
