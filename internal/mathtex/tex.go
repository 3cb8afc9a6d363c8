package mathtex

import "golang.org/x/net/html"

// TeXEngine leaves the expression untypeset: the escaped source is emitted in
// a code element, without delimiters, for client-side typesetting.
type TeXEngine struct{}

// NewTeXEngine creates a TeXEngine.
func NewTeXEngine() *TeXEngine {
	return &TeXEngine{}
}

// Name implements Engine.
func (e *TeXEngine) Name() string { return "tex" }

// Typeset implements Engine.
func (e *TeXEngine) Typeset(tex string, _ bool) (string, error) {
	return `<code class="math-tex">` + html.EscapeString(tex) + `</code>`, nil
}

var _ Engine = (*TeXEngine)(nil)
