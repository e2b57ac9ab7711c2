package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markup2html <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert markup files to sanitized HTML")
	fmt.Fprintln(w, "  sanitize   Sanitize an HTML fragment")
	fmt.Fprintln(w, "  watch      Re-convert files when they change")
	fmt.Fprintln(w, "  doctor     Check the renderer and cache directory")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'markup2html help <command>' for details on a specific command.")
}

// printRendererUsage prints flags shared by convert and watch.
func printRendererUsage(w io.Writer) {
	fmt.Fprintln(w, "Renderer:")
	fmt.Fprintln(w, "      --engine <name>       github-markup (default) or goldmark")
	fmt.Fprintln(w, "      --renderer <cmd>      Renderer executable (default github-markup)")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Renderer timeout (default 3s)")
	fmt.Fprintln(w, "      --cache-dir <dir>     Scratch and sanitizer cache directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "      --base-url <url>      Rebase relative links and images")
	fmt.Fprintln(w, "      --standalone          Wrap output in a complete HTML page")
	fmt.Fprintln(w, "      --css <style|file>    Built-in style (github, plain) or CSS file (implies --standalone)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printCommonUsage prints flags shared by every command.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing and debug logs")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markup2html convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markup files to sanitized HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markup file or directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Batch:")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel conversions (0 = auto)")
	fmt.Fprintln(w)
	printRendererUsage(w)
	fmt.Fprintln(w)
	printEnvUsage(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markup2html watch <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markup files, then convert them again on every change.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Watch:")
	fmt.Fprintln(w, "      --delay <dur>         Quiet period before converting (default 200ms)")
	fmt.Fprintln(w)
	printRendererUsage(w)
}

// printSanitizeUsage prints usage for the sanitize command.
func printSanitizeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markup2html sanitize [file] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sanitize HTML from file (or stdin when omitted or \"-\").")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <file>       Output file (default stdout)")
	fmt.Fprintln(w, "      --cache-dir <dir>     Sanitizer cache directory")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: markup2html doctor [--json] [-c config]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that the renderer is installed and the cache directory is writable.")
}

// printEnvUsage lists the recognized environment variables.
func printEnvUsage(w io.Writer) {
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MARKUP2HTML_CONFIG, MARKUP2HTML_ENGINE, MARKUP2HTML_RENDERER,")
	fmt.Fprintln(w, "  MARKUP2HTML_TIMEOUT, MARKUP2HTML_CACHE_DIR, MARKUP2HTML_OUTPUT_DIR,")
	fmt.Fprintln(w, "  MARKUP2HTML_BASE_URL, MARKUP2HTML_LOG_LEVEL, MARKUP2HTML_LOG_FORMAT,")
	fmt.Fprintln(w, "  MARKUP2HTML_WORKERS")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "sanitize":
		printSanitizeUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: markup2html version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: markup2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "%v: %s\n\n", ErrUnknownCommand, args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
