package mdmath

import (
	"github.com/microcosm-cc/bluemonday"
)

// Option configures a Renderer.
type Option func(*rendererConfig)

// rendererConfig holds the construction-time configuration of a Renderer.
// It is copied into the Renderer and never modified afterwards.
type rendererConfig struct {
	delimiters     Delimiters
	packages       []string
	allowRawHTML   bool
	engine         Engine
	engineName     string
	sanitize       bool
	policy         *bluemonday.Policy
	fallback       bool
	strict         bool
	highlight      bool
	highlightStyle string
	hardWraps      bool

	markdown    MarkdownConverter
	markdownSet bool
	math        MathTypesetter
	mathSet     bool
}

// defaultRendererConfig returns the configuration used when no option is given.
// Raw HTML pass-through is enabled explicitly: embedding trusted HTML in
// markdown is part of the documented behavior.
func defaultRendererConfig() rendererConfig {
	return rendererConfig{
		allowRawHTML: true,
		highlight:    true,
	}
}

// WithDelimiters sets the math delimiters, in priority order.
// Build the value with NewDelimiters or DelimitersFromMathJax.
func WithDelimiters(d Delimiters) Option {
	return func(c *rendererConfig) {
		c.delimiters = d
	}
}

// WithPackages selects the TeX packages (MathJax names: base, ams, color,
// cancel). Commands outside the enabled packages render as error markers.
func WithPackages(names ...string) Option {
	return func(c *rendererConfig) {
		c.packages = append([]string(nil), names...)
	}
}

// WithRawHTML controls pass-through of raw HTML found in the markdown source.
// Enabled by default.
func WithRawHTML(allow bool) Option {
	return func(c *rendererConfig) {
		c.allowRawHTML = allow
	}
}

// WithEngine sets the math engine used by the built-in math stage.
func WithEngine(e Engine) Option {
	return func(c *rendererConfig) {
		c.engine = e
	}
}

// WithEngineName selects a built-in math engine by name (see EngineNames).
func WithEngineName(name string) Option {
	return func(c *rendererConfig) {
		c.engineName = name
	}
}

// WithSanitizer sanitizes the markdown output before math typesetting.
// A nil policy selects a UGC policy that keeps highlighting classes.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(c *rendererConfig) {
		c.sanitize = true
		c.policy = policy
	}
}

// WithFallback makes Render return the escaped input as a preformatted
// fragment, alongside the error, when a stage fails.
func WithFallback(enabled bool) Option {
	return func(c *rendererConfig) {
		c.fallback = enabled
	}
}

// WithStrictDelimiters turns an opening marker without a partner into a
// render error instead of literal text.
func WithStrictDelimiters(strict bool) Option {
	return func(c *rendererConfig) {
		c.strict = strict
	}
}

// WithHighlighting controls syntax highlighting of fenced code blocks.
// An empty style selects the default chroma style.
func WithHighlighting(enabled bool, style string) Option {
	return func(c *rendererConfig) {
		c.highlight = enabled
		c.highlightStyle = style
	}
}

// WithHardWraps renders newlines inside paragraphs as line breaks.
func WithHardWraps(enabled bool) Option {
	return func(c *rendererConfig) {
		c.hardWraps = enabled
	}
}

// WithMarkdownConverter replaces the markdown stage.
// The converter must leave delimited math spans intact.
func WithMarkdownConverter(m MarkdownConverter) Option {
	return func(c *rendererConfig) {
		c.markdown = m
		c.markdownSet = true
	}
}

// WithMathTypesetter replaces the math stage. Engine, packages and strict
// options only apply to the built-in math stage.
func WithMathTypesetter(m MathTypesetter) Option {
	return func(c *rendererConfig) {
		c.math = m
		c.mathSet = true
	}
}
