//go:build integration

package mdmath

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func openHostPage(t *testing.T, ctx context.Context) *BrowserPage {
	t.Helper()

	host, err := BuildHostPage(nil, HostPageOptions{})
	if err != nil {
		t.Fatalf("BuildHostPage() error = %v", err)
	}

	page, err := acquireBrowser(t).OpenPage(ctx, host)
	if err != nil {
		t.Fatalf("OpenPage() error = %v", err)
	}
	t.Cleanup(func() { _ = page.Close() })
	return page
}

func TestBrowserContainer_Present_Integration(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	r, err := NewRenderer(WithEngineName("tex"))
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	frag, err := r.Render(ctx, "# Title\n\nInline $a+b$ and block:\n\n$$c=d$$")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	page := openHostPage(t, ctx)
	c, err := page.Container(ctx, DefaultSelector)
	if err != nil {
		t.Fatalf("Container() error = %v", err)
	}

	before, err := c.StyleProperty(ctx, "display")
	if err != nil {
		t.Fatalf("StyleProperty() error = %v", err)
	}
	if before != "none" {
		t.Errorf("display before Present = %q, want none", before)
	}

	if err := Present(ctx, frag, c); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	inner, err := c.InnerHTML(ctx)
	if err != nil {
		t.Fatalf("InnerHTML() error = %v", err)
	}
	for _, want := range []string{"<h1", "math-inline", "math-display"} {
		if !strings.Contains(inner, want) {
			t.Errorf("innerHTML missing %q: %q", want, inner)
		}
	}

	after, err := c.StyleProperty(ctx, "display")
	if err != nil {
		t.Fatalf("StyleProperty() error = %v", err)
	}
	if after != "block" {
		t.Errorf("display after Present = %q, want block", after)
	}

	html, err := page.HTML(ctx)
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if !strings.Contains(html, "math-display") {
		t.Errorf("page HTML missing presented fragment")
	}
}

func TestBrowserPage_Container_Integration(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	page := openHostPage(t, ctx)

	if _, err := page.Container(ctx, "#missing"); !errors.Is(err, ErrContainerNotFound) {
		t.Errorf("expected ErrContainerNotFound, got %v", err)
	}
	if _, err := page.Container(ctx, "main["); !errors.Is(err, ErrInvalidSelector) {
		t.Errorf("expected ErrInvalidSelector, got %v", err)
	}
}
