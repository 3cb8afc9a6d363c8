package mathtex

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"

	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MathMLEngine converts TeX to MathML with treeblood.
//
// treeblood is exposed as a goldmark extension, so the expression is wrapped
// in dollar markers and run through a private goldmark instance that knows
// nothing else.
type MathMLEngine struct {
	md goldmark.Markdown
}

// NewMathMLEngine creates a MathMLEngine.
func NewMathMLEngine() *MathMLEngine {
	return &MathMLEngine{
		md: goldmark.New(goldmark.WithExtensions(treeblood.MathML())),
	}
}

// Name implements Engine.
func (e *MathMLEngine) Name() string { return "mathml" }

// Typeset implements Engine.
func (e *MathMLEngine) Typeset(tex string, display bool) (string, error) {
	tex = strings.TrimSpace(tex)
	if tex == "" {
		return "", nil
	}

	marker := "$"
	if display {
		marker = "$$"
	}

	var buf bytes.Buffer
	if err := e.md.Convert([]byte(marker+tex+marker), &buf); err != nil {
		return "", fmt.Errorf("mathml: %w", err)
	}

	out := strings.TrimSpace(buf.String())
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	out = strings.TrimSpace(out)

	if !strings.Contains(out, "<math") {
		return "", fmt.Errorf("mathml: %w for %q", ErrEmptyOutput, tex)
	}
	return sortAttributes(out)
}

// sortAttributes re-serializes markup with the attributes of every element
// ordered by key. treeblood writes them in map iteration order.
func sortAttributes(markup string) (string, error) {
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return "", fmt.Errorf("mathml: %w", err)
	}

	var buf strings.Builder
	for _, n := range nodes {
		sortNodeAttributes(n)
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("mathml: %w", err)
		}
	}
	return buf.String(), nil
}

func sortNodeAttributes(n *html.Node) {
	if n.Type == html.ElementNode && len(n.Attr) > 1 {
		slices.SortStableFunc(n.Attr, func(a, b html.Attribute) int {
			return cmp.Or(cmp.Compare(a.Namespace, b.Namespace), cmp.Compare(a.Key, b.Key))
		})
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sortNodeAttributes(c)
	}
}

var _ Engine = (*MathMLEngine)(nil)
