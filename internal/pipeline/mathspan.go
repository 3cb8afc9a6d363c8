package pipeline

import (
	"github.com/alnah/go-mdmath/internal/delim"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Parser priorities. Math spans must win over emphasis and over goldmark's
// own backslash escapes so that "\(" and "a_1*b_2" survive untouched.
const (
	mathSpanPriority       = 700
	markerEscapePriority   = 600
	mathSpanRenderPriority = 500
)

// KindMathSpan is the node kind of MathSpan.
var KindMathSpan = ast.NewNodeKind("MathSpan")

// MathSpan is an inline node holding the raw TeX of a delimited span.
type MathSpan struct {
	ast.BaseInline

	Delimiter delim.Delimiter
	TeX       []byte
}

// Kind implements ast.Node.
func (n *MathSpan) Kind() ast.NodeKind {
	return KindMathSpan
}

// Dump implements ast.Node.
func (n *MathSpan) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Left": n.Delimiter.Left,
		"TeX":  string(n.TeX),
	}, nil)
}

// mathSpanParser recognizes one delimiter pair.
type mathSpanParser struct {
	d delim.Delimiter
}

func (p *mathSpanParser) Trigger() []byte {
	return []byte{p.d.Left[0]}
}

func (p *mathSpanParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, seg := block.PeekLine()
	if line == nil || !delim.Opens(string(line), 0, p.d) {
		return nil
	}
	lineNo, _ := block.Position()

	from := len(p.d.Left)
	joined := string(line)
	end := delim.Close(joined, from, p.d)

	// Display spans may continue on the following lines of the paragraph.
	for end < 0 && p.d.Display {
		block.AdvanceLine()
		next, _ := block.PeekLine()
		if next == nil {
			break
		}
		joined += string(next)
		end = delim.Close(joined, from, p.d)
	}

	block.SetPosition(lineNo, seg)
	if end < 0 {
		return nil
	}
	block.Advance(end + len(p.d.Right))

	return &MathSpan{
		Delimiter: p.d,
		TeX:       []byte(joined[from:end]),
	}
}

// markerEscapeParser keeps escaped and unmatched markers literal.
//
// A backslash followed by the first byte of a marker becomes an escape
// placeholder, restored as a character reference after the math stage, so
// nothing in between can mistake it for an opener.
// A marker that itself starts with a backslash ("\(") and reaches this
// parser has no partner; it is written back verbatim instead of letting
// goldmark drop the backslash.
type markerEscapeParser struct {
	delimiters []delim.Delimiter
	starts     []byte
}

func (p *markerEscapeParser) Trigger() []byte {
	return []byte{'\\'}
}

func (p *markerEscapeParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 2 || line[0] != '\\' {
		return nil
	}

	for _, d := range p.delimiters {
		if d.Left[0] == '\\' && len(line) >= len(d.Left) && string(line[:len(d.Left)]) == d.Left {
			block.Advance(len(d.Left))
			return literal([]byte(d.Left))
		}
	}

	c := line[1]
	if !util.IsPunct(c) || !containsByte(p.starts, c) {
		return nil
	}
	block.Advance(2)
	return literal([]byte(EscapePlaceholder(rune(c))))
}

// literal returns a string node written to the output as-is.
func literal(v []byte) *ast.String {
	s := ast.NewString(v)
	s.SetCode(true)
	return s
}

func containsByte(bs []byte, c byte) bool {
	for _, b := range bs {
		if b == c {
			return true
		}
	}
	return false
}

// mathSpanRenderer writes a MathSpan back with its markers so the math stage
// can find it in the HTML.
type mathSpanRenderer struct{}

func (r *mathSpanRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMathSpan, r.renderMathSpan)
}

func (r *mathSpanRenderer) renderMathSpan(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	node := n.(*MathSpan)
	_, _ = w.WriteString(node.Delimiter.Left)
	_, _ = w.Write(util.EscapeHTML(node.TeX))
	_, _ = w.WriteString(node.Delimiter.Right)
	return ast.WalkSkipChildren, nil
}

// MathPassthrough is a goldmark extension that shields math spans from
// markdown processing.
type MathPassthrough struct {
	delimiters []delim.Delimiter
}

// NewMathPassthrough creates the extension for ds, in priority order.
func NewMathPassthrough(ds []delim.Delimiter) *MathPassthrough {
	return &MathPassthrough{delimiters: ds}
}

// Extend implements goldmark.Extender.
func (e *MathPassthrough) Extend(m goldmark.Markdown) {
	if len(e.delimiters) == 0 {
		return
	}

	parsers := make([]util.PrioritizedValue, 0, len(e.delimiters)+1)
	for i, d := range e.delimiters {
		parsers = append(parsers, util.Prioritized(&mathSpanParser{d: d}, mathSpanPriority-i))
	}
	parsers = append(parsers, util.Prioritized(&markerEscapeParser{
		delimiters: e.delimiters,
		starts:     delim.StartBytes(e.delimiters),
	}, markerEscapePriority))

	m.Parser().AddOptions(parser.WithInlineParsers(parsers...))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&mathSpanRenderer{}, mathSpanRenderPriority),
	))
}

// Compile-time interface checks.
var (
	_ parser.InlineParser   = (*mathSpanParser)(nil)
	_ parser.InlineParser   = (*markerEscapeParser)(nil)
	_ renderer.NodeRenderer = (*mathSpanRenderer)(nil)
	_ goldmark.Extender     = (*MathPassthrough)(nil)
)
