package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	markup2html "github.com/alnah/go-markup2html"
	"github.com/alnah/go-markup2html/internal/config"
	"github.com/alnah/go-markup2html/internal/fileutil"
)

// ErrNotReady reports that doctor found blocking problems.
var ErrNotReady = errors.New("environment not ready")

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Renderer rendererInfo `json:"renderer"`
	Cache    cacheInfo    `json:"cache"`
	Env      envInfo      `json:"environment"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// rendererInfo holds renderer detection results.
type rendererInfo struct {
	Engine  string `json:"engine"`
	Command string `json:"command"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Timeout string `json:"timeout"`
}

// cacheInfo holds cache directory checks.
type cacheInfo struct {
	Dir      string `json:"dir"`
	Exists   bool   `json:"exists"`
	Writable bool   `json:"writable"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// runDoctor executes the doctor command.
// Warnings still exit 0; errors exit 1.
func runDoctor(_ context.Context, args []string, env *Environment) error {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	result := &doctorResult{
		Status: "ready",
		Env:    envInfo{OS: runtime.GOOS, Arch: runtime.GOARCH},
	}

	flags.common.quiet = true
	cfg, err := loadSettings(&flags.common, env)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Configuration: %v", err))
		cfg = config.DefaultConfig()
	}

	checkRenderer(result, cfg)
	checkCache(result, cfg)
	checkEnvironment(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return &reportedError{err: ErrNotReady}
	}
	return nil
}

// checkRenderer locates the external renderer on PATH. A missing renderer
// is only a warning with the goldmark engine, which can still render
// Markdown.
func checkRenderer(result *doctorResult, cfg *config.Config) {
	info := &result.Renderer
	info.Engine = strings.ToLower(cfg.Renderer.Engine)
	if info.Engine == "" {
		info.Engine = markup2html.EngineCommand
	}
	info.Command = cfg.Renderer.Command
	if info.Command == "" {
		info.Command = markup2html.DefaultCommand
	}
	info.Timeout = markup2html.DefaultTimeout.String()
	if d, err := cfg.Renderer.TimeoutDuration(); err == nil && d > 0 {
		info.Timeout = d.String()
	}

	path, err := exec.LookPath(info.Command)
	if err == nil {
		info.Found = true
		info.Path = path
		return
	}

	msg := fmt.Sprintf("Renderer %q not found on PATH", info.Command)
	if info.Engine == markup2html.EngineGoldmark {
		result.Warnings = append(result.Warnings, msg+" (only Markdown can be converted)")
		return
	}
	result.Errors = append(result.Errors, msg+". Install it with `gem install github-markup` or set MARKUP2HTML_RENDERER")
}

// checkCache verifies the scratch and sanitizer cache directory without
// creating it.
func checkCache(result *doctorResult, cfg *config.Config) {
	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = config.DefaultCacheDir(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Cache directory: %v", err))
			return
		}
	}
	result.Cache.Dir = dir

	if _, err := os.Stat(dir); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Cache directory %s does not exist yet (created on first conversion)", dir))
		return
	}
	result.Cache.Exists = true

	if err := fileutil.CheckWritableDir(dir); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cache directory: %v", err))
		return
	}
	result.Cache.Writable = true
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("MARKUP2HTML_CONTAINER") == "1" {
		return true, "MARKUP2HTML_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "markup2html doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Renderer")
	fmt.Fprintf(w, "  [OK] Engine: %s\n", r.Renderer.Engine)
	if r.Renderer.Found {
		fmt.Fprintf(w, "  [OK] %s found at %s\n", r.Renderer.Command, r.Renderer.Path)
	} else if r.Renderer.Engine == markup2html.EngineGoldmark {
		fmt.Fprintf(w, "  [WARN] %s not found\n", r.Renderer.Command)
	} else {
		fmt.Fprintf(w, "  [ERROR] %s not found\n", r.Renderer.Command)
	}
	fmt.Fprintf(w, "  [OK] Timeout: %s\n", r.Renderer.Timeout)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Cache")
	switch {
	case r.Cache.Writable:
		fmt.Fprintf(w, "  [OK] %s: writable\n", r.Cache.Dir)
	case !r.Cache.Exists:
		fmt.Fprintf(w, "  [WARN] %s: missing\n", r.Cache.Dir)
	default:
		fmt.Fprintf(w, "  [ERROR] %s: not writable\n", r.Cache.Dir)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
