package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-mdmath/internal/delim"
	"golang.org/x/net/html"
)

// Sentinel errors for the math stage.
var (
	ErrMathTypeset      = errors.New("math typesetting failed")
	ErrUnterminatedMath = errors.New("unterminated math delimiter")
)

// Engine turns a TeX expression into markup.
type Engine interface {
	Typeset(tex string, display bool) (string, error)
}

// MathTypesetter abstracts the math stage operating on HTML.
type MathTypesetter interface {
	TypesetHTML(ctx context.Context, htmlContent string) (string, error)
}

// skippedElements hold content that is never scanned for math.
var skippedElements = map[string]bool{
	"pre":      true,
	"code":     true,
	"kbd":      true,
	"samp":     true,
	"script":   true,
	"style":    true,
	"textarea": true,
	"math":     true,
	"svg":      true,
}

// MathOverlay finds delimited spans in the text nodes of an HTML fragment and
// replaces them with the engine's markup.
type MathOverlay struct {
	delimiters []delim.Delimiter
	engine     Engine
	strict     bool
}

// NewMathOverlay creates a MathOverlay. With strict set, an opening marker
// without a partner is an error instead of literal text.
func NewMathOverlay(ds []delim.Delimiter, engine Engine, strict bool) *MathOverlay {
	return &MathOverlay{delimiters: ds, engine: engine, strict: strict}
}

// TypesetHTML implements MathTypesetter.
func (m *MathOverlay) TypesetHTML(ctx context.Context, htmlContent string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	z := html.NewTokenizer(strings.NewReader(htmlContent))
	var b strings.Builder
	b.Grow(len(htmlContent))

	skipDepth := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				return b.String(), nil
			}
			return "", fmt.Errorf("%w: %v", ErrMathTypeset, z.Err())
		}

		// Copy before TagName lowercases the buffer in place.
		raw := string(z.Raw())

		switch tt {
		case html.StartTagToken:
			if name, _ := z.TagName(); skippedElements[string(name)] {
				skipDepth++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); skippedElements[string(name)] && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				if err := ctx.Err(); err != nil {
					return "", err
				}
				if err := m.typesetText(&b, raw); err != nil {
					return "", err
				}
				continue
			}
		}

		b.WriteString(raw)
	}
}

// typesetText writes raw text with every complete span replaced.
func (m *MathOverlay) typesetText(b *strings.Builder, raw string) error {
	for _, seg := range delim.Split(raw, m.delimiters) {
		switch seg.Kind {
		case delim.Text:
			b.WriteString(seg.Value)
		case delim.Unterminated:
			if m.strict {
				return fmt.Errorf("%w: %q", ErrUnterminatedMath, seg.Value)
			}
			// Markers hold no HTML special characters, so they are safe as is.
			b.WriteString(seg.Value)
		case delim.Math:
			tex := html.UnescapeString(seg.Value)
			out, err := m.engine.Typeset(tex, seg.Delimiter.Display)
			if err != nil {
				return fmt.Errorf("%w: %q: %v", ErrMathTypeset, tex, err)
			}
			b.WriteString(out)
		}
	}
	return nil
}

// Compile-time interface check.
var _ MathTypesetter = (*MathOverlay)(nil)
