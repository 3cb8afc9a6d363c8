package main

import (
	"slices"
	"testing"

	"github.com/alnah/go-mdmath/internal/config"
)

func TestParseRenderFlags(t *testing.T) {
	t.Parallel()

	flags, args, err := parseRenderFlags([]string{
		"-o", "out", "-w", "2", "--engine", "tex", "--packages", "base,ams,color",
		"--strict", "--no-raw-html", "--mode", "page", "--selector", "main",
		"--display", "flex", "-q", "doc.md",
	})
	if err != nil {
		t.Fatalf("parseRenderFlags() error = %v", err)
	}

	if flags.output != "out" || flags.workers != 2 {
		t.Errorf("output, workers = %q, %d", flags.output, flags.workers)
	}
	if flags.math.engine != "tex" || !flags.math.strict {
		t.Errorf("math flags = %+v", flags.math)
	}
	if !slices.Equal(flags.math.packages, []string{"base", "ams", "color"}) {
		t.Errorf("packages = %v", flags.math.packages)
	}
	if !flags.markdown.noRawHTML || !flags.common.quiet {
		t.Error("boolean flags not set")
	}
	if flags.out.mode != "page" || flags.page.selector != "main" || flags.page.display != "flex" {
		t.Errorf("page/output flags = %+v %+v", flags.page, flags.out)
	}
	if !slices.Equal(args, []string{"doc.md"}) {
		t.Errorf("positional args = %v", args)
	}
}

func TestParseRenderFlags_Unknown(t *testing.T) {
	t.Parallel()

	if _, _, err := parseRenderFlags([]string{"--katex"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "no flags keeps config",
			args: nil,
			check: func(t *testing.T, cfg *config.Config) {
				def := config.DefaultConfig()
				if cfg.Math.Engine != def.Math.Engine || !cfg.Markdown.AllowRawHTML || !cfg.Output.Fallback {
					t.Errorf("config changed without flags: %+v", cfg)
				}
			},
		},
		{
			name: "negative flags",
			args: []string{"--no-raw-html", "--no-highlight", "--no-fallback"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Markdown.AllowRawHTML || cfg.Markdown.Highlight.Enabled || cfg.Output.Fallback {
					t.Errorf("negative flags not applied: %+v", cfg)
				}
			},
		},
		{
			name: "value flags",
			args: []string{"--engine", "tex", "--packages", "cancel", "--highlight-style", "monokai",
				"--template", "./host.html", "--asset-path", "assets", "--mode", "browser"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Math.Engine != "tex" || !slices.Equal(cfg.Math.Packages, []string{"cancel"}) {
					t.Errorf("math = %+v", cfg.Math)
				}
				if cfg.Markdown.Highlight.Style != "monokai" {
					t.Errorf("highlight style = %q", cfg.Markdown.Highlight.Style)
				}
				if cfg.Page.Template != "./host.html" || cfg.Assets.BasePath != "assets" {
					t.Errorf("page = %+v, assets = %+v", cfg.Page, cfg.Assets)
				}
				if cfg.Output.Mode != config.ModeBrowser {
					t.Errorf("mode = %q", cfg.Output.Mode)
				}
			},
		},
		{
			name: "positive booleans",
			args: []string{"--strict", "--hard-wraps", "--sanitize"},
			check: func(t *testing.T, cfg *config.Config) {
				if !cfg.Math.Strict || !cfg.Markdown.HardWraps || !cfg.Markdown.Sanitize {
					t.Errorf("booleans not applied: %+v", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags, _, err := parseRenderFlags(tt.args)
			if err != nil {
				t.Fatal(err)
			}
			cfg := config.DefaultConfig()
			mergeFlags(flags, cfg)
			tt.check(t, cfg)
		})
	}
}
