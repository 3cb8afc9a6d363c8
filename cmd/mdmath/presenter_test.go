package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/config"
)

func TestFragmentPresenter(t *testing.T) {
	t.Parallel()

	got, err := fragmentPresenter{}.Present(context.Background(), "<p>x</p>")
	if err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if got != "<p>x</p>" {
		t.Errorf("Present() = %q", got)
	}
}

func TestPagePresenter(t *testing.T) {
	t.Parallel()

	host := `<html><head></head><body><div id="out" style="display: none;">old</div></body></html>`

	tests := []struct {
		name     string
		selector string
		display  string
		wantErr  error
		contains []string
		excludes []string
	}{
		{
			name:     "replaces content and shows container",
			selector: "#out",
			display:  "block",
			contains: []string{`<div id="out" style="display: block;"><p>new</p></div>`},
			excludes: []string{"old"},
		},
		{
			name:     "empty display leaves style",
			selector: "#out",
			contains: []string{`style="display: none;"><p>new</p>`},
		},
		{
			name:     "missing container",
			selector: "#content",
			wantErr:  mdmath.ErrContainerNotFound,
		},
		{
			name:     "invalid selector",
			selector: "#",
			wantErr:  mdmath.ErrInvalidSelector,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &pagePresenter{hostPage: host, selector: tt.selector, display: tt.display}
			got, err := p.Present(context.Background(), "<p>new</p>")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Present() error = %v", err)
			}
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("output missing %q:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("output should not contain %q:\n%s", s, got)
				}
			}
		})
	}
}

func TestPagePresenter_ReusesHostPage(t *testing.T) {
	t.Parallel()

	p := &pagePresenter{hostPage: `<div id="c"></div>`, selector: "#c", display: "block"}

	first, err := p.Present(context.Background(), "<p>one</p>")
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Present(context.Background(), "<p>two</p>")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(second, "one") || !strings.Contains(first, "one") {
		t.Errorf("each presentation must start from the pristine host page:\n%s\n%s", first, second)
	}
}

func TestWithContainerHint(t *testing.T) {
	t.Parallel()

	err := withContainerHint(mdmath.ErrContainerNotFound, "#main")
	if !errors.Is(err, mdmath.ErrContainerNotFound) || !strings.Contains(err.Error(), "hint:") {
		t.Errorf("withContainerHint() = %v", err)
	}

	other := errors.New("other")
	if got := withContainerHint(other, "#main"); got != other {
		t.Errorf("unrelated errors must pass through, got %v", got)
	}
}

func TestLoadHostPage(t *testing.T) {
	t.Parallel()

	t.Run("embedded with highlighting", func(t *testing.T) {
		t.Parallel()

		page, err := loadHostPage(config.DefaultConfig())
		if err != nil {
			t.Fatalf("loadHostPage() error = %v", err)
		}
		if !strings.Contains(page, `id="content"`) {
			t.Error("embedded host page must have the #content container")
		}
		if !strings.Contains(page, ".chroma") {
			t.Error("highlighting stylesheet missing")
		}
	})

	t.Run("template from disk", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "host.html")
		writeFile(t, path, `<html><head></head><body><section id="content"></section></body></html>`)

		cfg := config.DefaultConfig()
		cfg.Page.Template = path
		cfg.Markdown.Highlight.Enabled = false

		page, err := loadHostPage(cfg)
		if err != nil {
			t.Fatalf("loadHostPage() error = %v", err)
		}
		if !strings.Contains(page, `<section id="content">`) {
			t.Errorf("custom host page not used:\n%s", page)
		}
		if strings.Contains(page, ".chroma") {
			t.Error("highlighting stylesheet added while disabled")
		}
	})

	t.Run("missing template file", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Page.Template = filepath.Join(t.TempDir(), "missing.html")

		if _, err := loadHostPage(cfg); !errors.Is(err, ErrReadTemplate) {
			t.Errorf("expected ErrReadTemplate, got %v", err)
		}
	})

	t.Run("unknown template name", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Page.Template = "nope"

		if _, err := loadHostPage(cfg); !errors.Is(err, mdmath.ErrTemplateNotFound) {
			t.Errorf("expected ErrTemplateNotFound, got %v", err)
		}
	})
}

func TestNewPresenterPool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode string
		want string
	}{
		{config.ModeFragment, "*main.sharedPool"},
		{config.ModePage, "*main.sharedPool"},
		{config.ModeBrowser, "*main.browserPool"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Output.Mode = tt.mode

			pool, err := newPresenterPool(cfg, 2, mdmath.DefaultPageTimeout)
			if err != nil {
				t.Fatalf("newPresenterPool() error = %v", err)
			}
			defer func() { _ = pool.Close() }()

			if got := typeName(pool); got != tt.want {
				t.Errorf("pool type = %s, want %s", got, tt.want)
			}
			if pool.Size() != 2 {
				t.Errorf("Size() = %d, want 2", pool.Size())
			}
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *sharedPool:
		return "*main.sharedPool"
	case *browserPool:
		return "*main.browserPool"
	}
	return "unknown"
}
