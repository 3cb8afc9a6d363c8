package mdmath

import (
	"context"
	"fmt"
	"regexp"
)

// DefaultDisplay is the display value Present applies after populating a container.
const DefaultDisplay = "block"

// Container is an output element that can receive a rendered fragment.
type Container interface {
	// ReplaceContent replaces all children of the element with the given
	// HTML, inserted unescaped.
	ReplaceContent(ctx context.Context, htmlContent string) error

	// SetStyleProperty sets one inline style property of the element.
	SetStyleProperty(ctx context.Context, name, value string) error
}

// Compile-time interface implementation checks.
var (
	_ Container = (*HTMLContainer)(nil)
	_ Container = (*BrowserContainer)(nil)
)

// PresentOption configures Present.
type PresentOption func(*presentConfig)

type presentConfig struct {
	display string
}

// WithDisplay sets the display value applied after the content is replaced.
// An empty value leaves the container's display untouched.
func WithDisplay(value string) PresentOption {
	return func(c *presentConfig) {
		c.display = value
	}
}

// displayValuePattern accepts CSS keywords such as block, flex or inline-block.
var displayValuePattern = regexp.MustCompile(`^[a-z-]+$`)

// Present writes the fragment into the container, replacing its previous
// content, then makes the container visible.
//
// SECURITY: the fragment is inserted without escaping. Only present fragments
// rendered from trusted input, or from a Renderer built with WithSanitizer.
func Present(ctx context.Context, frag Fragment, c Container, opts ...PresentOption) error {
	cfg := presentConfig{display: DefaultDisplay}
	for _, opt := range opts {
		opt(&cfg)
	}

	if c == nil {
		return fmt.Errorf("%w: container", ErrNilCollaborator)
	}
	if cfg.display != "" && !displayValuePattern.MatchString(cfg.display) {
		return fmt.Errorf("%w: %q", ErrInvalidDisplayValue, cfg.display)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.ReplaceContent(ctx, string(frag)); err != nil {
		return err
	}

	if cfg.display == "" {
		return nil
	}
	return c.SetStyleProperty(ctx, "display", cfg.display)
}
