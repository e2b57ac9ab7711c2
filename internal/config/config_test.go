package config

// Notes:
// - LoadConfig by name depends on the working directory and the user config
//   directory; those tests chdir or set HOME/XDG_CONFIG_HOME and therefore
//   do not run in parallel.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Renderer.Engine != "github-markup" {
		t.Errorf("Renderer.Engine = %q, want github-markup", cfg.Renderer.Engine)
	}
	if cfg.Renderer.Command != "" {
		t.Errorf("Renderer.Command = %q, want empty", cfg.Renderer.Command)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v, want warn/text", cfg.Log)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0", cfg.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate - Field rules
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "goldmark engine", mutate: func(c *Config) { c.Renderer.Engine = "goldmark" }},
		{name: "engine case-insensitive", mutate: func(c *Config) { c.Renderer.Engine = "GoldMark" }},
		{name: "unknown engine", mutate: func(c *Config) { c.Renderer.Engine = "pandoc" }, wantErr: ErrInvalidValue},
		{name: "valid timeout", mutate: func(c *Config) { c.Renderer.Timeout = "1500ms" }},
		{name: "bad timeout", mutate: func(c *Config) { c.Renderer.Timeout = "soon" }, wantErr: ErrInvalidValue},
		{name: "zero timeout", mutate: func(c *Config) { c.Renderer.Timeout = "0s" }, wantErr: ErrInvalidValue},
		{name: "negative input limit", mutate: func(c *Config) { c.Renderer.MaxInputBytes = -1 }, wantErr: ErrInvalidValue},
		{name: "negative output limit", mutate: func(c *Config) { c.Renderer.MaxOutputBytes = -1 }, wantErr: ErrInvalidValue},
		{name: "long command", mutate: func(c *Config) { c.Renderer.Command = strings.Repeat("x", MaxCommandLength+1) }, wantErr: ErrFieldTooLong},
		{name: "long cache dir", mutate: func(c *Config) { c.Cache.Dir = strings.Repeat("d", MaxPathLength+1) }, wantErr: ErrFieldTooLong},
		{name: "long base URL", mutate: func(c *Config) { c.Output.BaseURL = "https://x/" + strings.Repeat("p", MaxURLLength) }, wantErr: ErrFieldTooLong},
		{name: "json logs", mutate: func(c *Config) { c.Log.Format = "json"; c.Log.Level = "debug" }},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: ErrInvalidValue},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: ErrInvalidValue},
		{name: "negative workers", mutate: func(c *Config) { c.Workers = -2 }, wantErr: ErrInvalidValue},
		{name: "too many workers", mutate: func(c *Config) { c.Workers = MaxWorkers + 1 }, wantErr: ErrInvalidValue},
		{name: "empty fields use defaults", mutate: func(c *Config) { *c = Config{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRendererConfig_TimeoutDuration(t *testing.T) {
	t.Parallel()

	d, err := RendererConfig{}.TimeoutDuration()
	if err != nil || d != 0 {
		t.Errorf("empty timeout = %v, %v; want 0, nil", d, err)
	}

	d, err = RendererConfig{Timeout: "5s"}.TimeoutDuration()
	if err != nil || d != 5*time.Second {
		t.Errorf("5s timeout = %v, %v; want 5s, nil", d, err)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File loading
// ---------------------------------------------------------------------------

func TestLoadConfig_Path(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, cfg *Config)
		wantErr error
	}{
		{
			name: "full config",
			content: `renderer:
  engine: goldmark
  command: /opt/bin/github-markup
  timeout: 5s
  maxInputBytes: 1048576
cache:
  dir: /var/cache/markup2html
output:
  baseUrl: https://example.org/repo
  standalone: true
log:
  level: debug
  format: json
workers: 4
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Renderer.Engine != "goldmark" || cfg.Renderer.Command != "/opt/bin/github-markup" {
					t.Errorf("Renderer = %+v", cfg.Renderer)
				}
				if cfg.Renderer.MaxInputBytes != 1<<20 {
					t.Errorf("MaxInputBytes = %d", cfg.Renderer.MaxInputBytes)
				}
				if cfg.Cache.Dir != "/var/cache/markup2html" {
					t.Errorf("Cache.Dir = %q", cfg.Cache.Dir)
				}
				if !cfg.Output.Standalone || cfg.Output.BaseURL != "https://example.org/repo" {
					t.Errorf("Output = %+v", cfg.Output)
				}
				if cfg.Workers != 4 {
					t.Errorf("Workers = %d, want 4", cfg.Workers)
				}
			},
		},
		{
			name:    "partial config keeps defaults",
			content: "workers: 2\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Log.Level != "warn" || cfg.Renderer.Engine != "github-markup" {
					t.Errorf("defaults lost: %+v", cfg)
				}
			},
		},
		{
			name:    "unknown field rejected",
			content: "renderer:\n  binary: github-markup\n",
			wantErr: ErrConfigParse,
		},
		{
			name:    "invalid value rejected",
			content: "log:\n  level: loud\n",
			wantErr: ErrInvalidValue,
		},
		{
			name:    "empty file rejected",
			content: "",
			wantErr: ErrConfigParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, t.TempDir(), "markup2html.yaml", tt.content)
			cfg, err := LoadConfig(path)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadConfig() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
		t.Errorf("LoadConfig(\"\") error = %v, want ErrEmptyConfigName", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := LoadConfig(missing); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig(missing) error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	writeConfig(t, dir, "team.yml", "workers: 3\n")

	cfg, err := LoadConfig("team")
	if err != nil {
		t.Fatalf("LoadConfig(team) error = %v", err)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Workers)
	}
}

func TestLoadConfig_UserConfigDir(t *testing.T) {
	t.Chdir(t.TempDir())
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		t.Skip("no user config dir on this platform")
	}
	dir := filepath.Join(userConfigDir, AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, dir, "ci.yaml", "log:\n  format: json\n")

	cfg, err := LoadConfig("ci")
	if err != nil {
		t.Fatalf("LoadConfig(ci) error = %v", err)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
}

func TestLoadConfig_NameNotFound(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	_, err := LoadConfig("absent")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("LoadConfig(absent) error = %v, want ErrConfigNotFound", err)
	}
	if !strings.Contains(err.Error(), "absent.yaml") || !strings.Contains(err.Error(), "absent.yml") {
		t.Errorf("error does not list tried paths: %v", err)
	}
}

func TestSearchPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("HOME", "/home/dev")

	paths := SearchPaths("markup2html")
	if len(paths) < 2 || paths[0] != "markup2html.yaml" || paths[1] != "markup2html.yml" {
		t.Errorf("SearchPaths() = %v, want local files first", paths)
	}
}
