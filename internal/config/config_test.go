package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Math.Engine != "mathml" {
		t.Errorf("Math.Engine = %q, want mathml", cfg.Math.Engine)
	}
	if !cfg.Markdown.AllowRawHTML {
		t.Error("Markdown.AllowRawHTML = false, want true")
	}
	if !cfg.Markdown.Highlight.Enabled {
		t.Error("Markdown.Highlight.Enabled = false, want true")
	}
	if cfg.Output.Mode != ModeFragment {
		t.Errorf("Output.Mode = %q, want %q", cfg.Output.Mode, ModeFragment)
	}
	if cfg.Page.Selector != "#content" {
		t.Errorf("Page.Selector = %q, want #content", cfg.Page.Selector)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}

	d, err := cfg.Delimiters()
	if err != nil {
		t.Fatalf("Delimiters() error = %v", err)
	}
	if d.Len() != 4 {
		t.Errorf("Delimiters().Len() = %d, want 4", d.Len())
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{name: "empty value is valid", value: "", maxLength: 10},
		{name: "value at limit is valid", value: "1234567890", maxLength: 10},
		{name: "value over limit returns error", value: "12345678901", maxLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Fatalf("error = %v, want ErrFieldTooLong", err)
				}
				if !strings.Contains(err.Error(), "test.field") {
					t.Errorf("error should name the field: %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:    "unknown engine",
			modify:  func(c *Config) { c.Math.Engine = "katex" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown package",
			modify:  func(c *Config) { c.Math.Packages = []string{"base", "physics"} },
			wantErr: ErrInvalidValue,
		},
		{
			name: "too many packages",
			modify: func(c *Config) {
				c.Math.Packages = make([]string, MaxPackages+1)
			},
			wantErr: ErrFieldTooLong,
		},
		{
			name: "explicit delimiters",
			modify: func(c *Config) {
				c.Math.Delimiters = []DelimiterConfig{{Left: "@@", Right: "@@", Display: true}}
			},
		},
		{
			name: "ambiguous explicit delimiters",
			modify: func(c *Config) {
				c.Math.Delimiters = []DelimiterConfig{
					{Left: "$", Right: "$"},
					{Left: "$$", Right: "$$", Display: true},
				}
			},
			wantErr: errAny,
		},
		{
			name: "marker too long",
			modify: func(c *Config) {
				c.Math.Delimiters = []DelimiterConfig{{Left: strings.Repeat("$", 20), Right: strings.Repeat("$", 20)}}
			},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "malformed MathJax pair",
			modify:  func(c *Config) { c.Math.InlineMath = [][]string{{"$"}} },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown highlight style",
			modify:  func(c *Config) { c.Markdown.Highlight.Style = "no-such-style" },
			wantErr: ErrInvalidValue,
		},
		{
			name: "unknown highlight style ignored when disabled",
			modify: func(c *Config) {
				c.Markdown.Highlight.Enabled = false
				c.Markdown.Highlight.Style = "no-such-style"
			},
		},
		{
			name:    "unknown mode",
			modify:  func(c *Config) { c.Output.Mode = "pdf" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "display with CSS injection",
			modify:  func(c *Config) { c.Output.Display = "block;color:red" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "selector too long",
			modify:  func(c *Config) { c.Page.Selector = strings.Repeat("a", MaxSelectorLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "template path too long",
			modify:  func(c *Config) { c.Page.Template = strings.Repeat("a", MaxPathLength+1) },
			wantErr: ErrFieldTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			switch {
			case tt.wantErr == nil && err != nil:
				t.Errorf("unexpected error: %v", err)
			case tt.wantErr == errAny && err == nil:
				t.Error("expected an error")
			case tt.wantErr != nil && tt.wantErr != errAny && !errors.Is(err, tt.wantErr):
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// errAny matches any non-nil error in table tests.
var errAny = errors.New("any error")

func TestConfig_Delimiters_MathJaxLists(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Math.InlineMath = [][]string{{"$", "$"}, {`\(`, `\)`}}
	cfg.Math.DisplayMath = [][]string{{"$$", "$$"}}

	d, err := cfg.Delimiters()
	if err != nil {
		t.Fatalf("Delimiters() error = %v", err)
	}
	list := d.List()
	if len(list) != 3 || list[0].Left != "$$" || !list[0].Display {
		t.Errorf("Delimiters() = %+v, want $$ first as display", list)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "mdmath.yaml", `
math:
  engine: tex
  packages: [base, ams, color]
  inlineMath: [["$", "$"], ["\\(", "\\)"]]
output:
  mode: page
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Math.Engine != "tex" {
			t.Errorf("Math.Engine = %q, want tex", cfg.Math.Engine)
		}
		if len(cfg.Math.Packages) != 3 {
			t.Errorf("Math.Packages = %v", cfg.Math.Packages)
		}
		if cfg.Output.Mode != ModePage {
			t.Errorf("Output.Mode = %q, want page", cfg.Output.Mode)
		}
		if !cfg.Markdown.AllowRawHTML || !cfg.Output.Fallback {
			t.Error("keys absent from the file should keep their defaults")
		}
		if got := cfg.Math.InlineMath[1]; got[0] != `\(` || got[1] != `\)` {
			t.Errorf("InlineMath[1] = %q", got)
		}
	})

	t.Run("explicit false overrides default", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "c.yml", "markdown:\n  allowRawHtml: false\n")
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Markdown.AllowRawHTML {
			t.Error("AllowRawHTML = true, want false")
		}
	})

	t.Run("unknown key is rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "c.yaml", "math:\n  enigne: tex\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("expected ErrConfigParse, got %v", err)
		}
	})

	t.Run("invalid value is rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "c.yaml", "output:\n  mode: pdf\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("expected ErrInvalidValue, got %v", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "c.yaml", "")
		if _, err := LoadConfig(path); !errors.Is(err, ErrEmptyData) {
			t.Errorf("expected ErrEmptyData, got %v", err)
		}
	})

	t.Run("oversized file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "c.yaml", "# "+strings.Repeat("x", MaxInputSize))
		if _, err := LoadConfig(path); !errors.Is(err, ErrInputTooLarge) {
			t.Errorf("expected ErrInputTooLarge, got %v", err)
		}
	})

	t.Run("missing file path", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("expected ErrEmptyConfigName, got %v", err)
		}
	})
}

// Changing the working directory affects the whole process, so these tests
// do not run in parallel.

func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeConfig(t, dir, "work.yml", "math:\n  strict: true\n")

	cfg, err := LoadConfig("work")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.Math.Strict {
		t.Error("Math.Strict = false, want true")
	}
}

func TestLoadConfig_ByNameNotFound(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadConfig("nowhere")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "nowhere.yaml") {
		t.Errorf("error should list tried paths: %v", err)
	}
}

func TestConfig_Marshal(t *testing.T) {
	t.Parallel()

	out, err := DefaultConfig().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{"engine: mathml", "allowRawHtml: true", "selector:"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("Marshal() missing %q:\n%s", want, out)
		}
	}
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("work")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v, want at least the local candidates", paths)
	}
	if paths[0] != "work.yaml" || paths[1] != "work.yml" {
		t.Errorf("local candidates = %v, want work.yaml then work.yml", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(filepath.ToSlash(p), "go-mdmath/work.") {
			t.Errorf("user candidate %q not under go-mdmath", p)
		}
	}
}
