package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUnknownCommand reports a subcommand that does not exist.
var ErrUnknownCommand = errors.New("unknown command")

// command runs one subcommand with its arguments (without the command name).
type command func(ctx context.Context, args []string, env *Environment) error

// commands maps subcommand names to their implementation.
var commands = map[string]command{
	"convert":  runConvert,
	"sanitize": runSanitize,
	"watch":    runWatch,
	"doctor":   runDoctor,
}

func main() {
	setMaxProcs(hasVerboseFlag(os.Args[1:]), os.Stderr)
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// setMaxProcs aligns GOMAXPROCS with the container CPU quota.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(verbose bool, w io.Writer) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}

// hasVerboseFlag reports whether -v or --verbose appears before "--".
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		switch a {
		case "--":
			return false
		case "-v", "--verbose":
			return true
		}
	}
	return false
}

// isCommand reports whether name is a known subcommand.
func isCommand(name string) bool {
	switch name {
	case "version", "help":
		return true
	}
	_, ok := commands[name]
	return ok
}

// runMain dispatches to a subcommand and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	name, rest := args[1], args[2:]
	switch name {
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "markup2html %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(env.Stderr, "%v: %s\n\n", ErrUnknownCommand, name)
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := cmd(ctx, rest, env)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
		}
	}
	return exitCodeFor(err)
}

// reportedError marks an error whose details were already written to
// stderr, so runMain only derives the exit code from it.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }
