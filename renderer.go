package mdmath

import (
	"context"
	"fmt"
	"regexp"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/alnah/go-mdmath/internal/log"
	"github.com/alnah/go-mdmath/internal/mathtex"
	"github.com/alnah/go-mdmath/internal/pipeline"
	"github.com/reconquest/karma-go"
	"golang.org/x/net/html"
)

// MarkdownConverter converts markdown to an HTML fragment.
// Implementations must pass delimited math spans through unchanged.
type MarkdownConverter interface {
	ToHTML(ctx context.Context, markdown string) (string, error)
}

// MathTypesetter replaces delimited math spans in an HTML fragment with
// typeset markup. Code regions are hidden from it by the Renderer.
type MathTypesetter interface {
	TypesetHTML(ctx context.Context, htmlContent string) (string, error)
}

// Engine typesets a single TeX expression into HTML markup.
type Engine interface {
	Name() string
	Typeset(tex string, display bool) (string, error)
}

// Compile-time interface implementation checks.
var (
	_ MarkdownConverter = (*pipeline.GoldmarkConverter)(nil)
	_ MathTypesetter    = (*pipeline.MathOverlay)(nil)
	_ Engine            = (*mathtex.MathMLEngine)(nil)
	_ Engine            = (*mathtex.TeXEngine)(nil)
)

// Fragment is a rendered HTML fragment. It is trusted HTML: present it only
// if the input came from a trusted author or sanitization was enabled.
type Fragment string

// String returns the fragment markup.
func (f Fragment) String() string {
	return string(f)
}

// FallbackFragment returns the escaped input as a preformatted block.
func FallbackFragment(input string) Fragment {
	return Fragment(`<pre class="mdmath-fallback">` + html.EscapeString(input) + `</pre>`)
}

// DefaultEngine is the math engine used when none is configured.
const DefaultEngine = mathtex.DefaultEngine

// DefaultHighlightStyle is the chroma style used for fenced code when none is set.
const DefaultHighlightStyle = pipeline.DefaultHighlightStyle

// EngineNames returns the names accepted by WithEngineName.
func EngineNames() []string {
	return mathtex.Names()
}

// PackageNames returns the names accepted by WithPackages.
func PackageNames() []string {
	return mathtex.PackageNames()
}

// crlfOrCR matches Windows and old Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Renderer turns markdown with embedded math into HTML fragments.
// It holds no mutable state and is safe for concurrent use.
type Renderer struct {
	cfg        rendererConfig
	engineName string
	markdown   MarkdownConverter
	sanitizer  pipeline.HTMLSanitizer
	math       MathTypesetter
}

// NewRenderer creates a Renderer. Any invalid option makes it fail with a
// *ConfigurationError; no partially configured Renderer is returned.
func NewRenderer(opts ...Option) (*Renderer, error) {
	cfg := defaultRendererConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.delimiters.Len() == 0 {
		cfg.delimiters = DefaultDelimiters()
	}

	r := &Renderer{cfg: cfg}

	if err := r.initMarkdown(); err != nil {
		return nil, err
	}

	if cfg.sanitize {
		r.sanitizer = pipeline.NewPolicySanitizer(cfg.policy)
	}

	if err := r.initMath(); err != nil {
		return nil, err
	}

	log.Debugf(
		karma.Describe("delimiters", cfg.delimiters.String()).
			Describe("engine", r.engineName).
			Describe("raw_html", cfg.allowRawHTML).
			Describe("sanitize", cfg.sanitize),
		"renderer initialized",
	)

	return r, nil
}

func (r *Renderer) initMarkdown() error {
	if r.cfg.markdownSet {
		if r.cfg.markdown == nil {
			return &ConfigurationError{Field: "markdown", Err: ErrNilCollaborator}
		}
		r.markdown = r.cfg.markdown
		return nil
	}

	if r.cfg.highlight && r.cfg.highlightStyle != "" {
		if _, ok := styles.Registry[r.cfg.highlightStyle]; !ok {
			return &ConfigurationError{
				Field: "highlight.style",
				Err:   fmt.Errorf("%w: %q", ErrInvalidHighlight, r.cfg.highlightStyle),
			}
		}
	}

	r.markdown = pipeline.NewGoldmarkConverter(pipeline.GoldmarkOptions{
		Delimiters:     r.cfg.delimiters.list,
		AllowRawHTML:   r.cfg.allowRawHTML,
		HardWraps:      r.cfg.hardWraps,
		Highlight:      r.cfg.highlight,
		HighlightStyle: r.cfg.highlightStyle,
	})
	return nil
}

func (r *Renderer) initMath() error {
	if r.cfg.mathSet {
		if r.cfg.math == nil {
			return &ConfigurationError{Field: "math", Err: ErrNilCollaborator}
		}
		r.math = r.cfg.math
		r.engineName = "custom"
		return nil
	}

	engine := r.cfg.engine
	if engine == nil {
		e, err := mathtex.Lookup(r.cfg.engineName)
		if err != nil {
			return &ConfigurationError{Field: "engine", Err: err}
		}
		engine = e
	}
	r.engineName = engine.Name()

	commands, err := mathtex.NewCommandSet(r.cfg.packages)
	if err != nil {
		return &ConfigurationError{Field: "packages", Err: err}
	}

	typesetter, err := mathtex.NewTypesetter(engine, commands)
	if err != nil {
		return &ConfigurationError{Field: "engine", Err: err}
	}

	r.math = pipeline.NewMathOverlay(r.cfg.delimiters.list, typesetter, r.cfg.strict)
	return nil
}

// Delimiters returns the delimiters in use.
func (r *Renderer) Delimiters() Delimiters {
	return r.cfg.delimiters
}

// EngineName returns the name of the math engine, or "custom" when the math
// stage was replaced.
func (r *Renderer) EngineName() string {
	return r.engineName
}

// Render converts input to an HTML fragment: markdown first, then math.
// Code regions produced by the markdown stage are never typeset.
//
// A failing stage yields a *RenderError naming it. With WithFallback the
// escaped input is returned as well, so a caller always has something to show;
// the result is never a mixture of typeset and untypeset math.
//
// Render does not touch any output container; use Present for that.
func (r *Renderer) Render(ctx context.Context, input string) (Fragment, error) {
	frag, err := r.render(ctx, input)
	if err != nil {
		log.Debugf(karma.Describe("fallback", r.cfg.fallback).Describe("error", err), "render failed")
		if r.cfg.fallback {
			return FallbackFragment(input), err
		}
		return "", err
	}

	log.Tracef(
		karma.Describe("input_bytes", len(input)).Describe("output_bytes", len(frag)),
		"rendered fragment",
	)
	return frag, nil
}

func (r *Renderer) render(ctx context.Context, input string) (Fragment, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	input = pipeline.EscapeReserved(crlfOrCR.ReplaceAllString(input, "\n"))

	htmlContent, err := runStage(StageMarkdown, func() (string, error) {
		return r.markdown.ToHTML(ctx, input)
	})
	if err != nil {
		return "", err
	}

	if r.sanitizer != nil {
		htmlContent, err = runStage(StageSanitize, func() (string, error) {
			return r.sanitizer.SanitizeHTML(ctx, htmlContent)
		})
		if err != nil {
			return "", err
		}
	}

	protected, restore := pipeline.ProtectCode(htmlContent)

	typeset, err := runStage(StageMath, func() (string, error) {
		return r.math.TypesetHTML(ctx, protected)
	})
	if err != nil {
		return "", err
	}

	return Fragment(pipeline.RestoreEscapes(restore(typeset))), nil
}

// runStage runs fn, converting both errors and panics into a *RenderError.
func runStage(stage Stage, fn func() (string, error)) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = ""
			err = &RenderError{Stage: stage, Cause: fmt.Errorf("%w: %v", ErrStagePanic, p)}
		}
	}()

	out, err = fn()
	if err != nil {
		return "", &RenderError{Stage: stage, Cause: err}
	}
	return out, nil
}
