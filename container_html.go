package mdmath

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/css"
	cssparser "github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultSelector locates the container of the embedded host page.
const DefaultSelector = "#content"

// HTMLDocument is a host page held in memory as a DOM tree.
// It is not safe for concurrent use.
type HTMLDocument struct {
	root *html.Node
}

// ParseHTMLDocument parses a host page.
func ParseHTMLDocument(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHostPageParse, err)
	}
	return &HTMLDocument{root: root}, nil
}

// Container returns the first element matching the CSS selector.
func (d *HTMLDocument) Container(selector string) (*HTMLContainer, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, selector, err)
	}

	node := cascadia.Query(d.root, sel)
	if node == nil {
		return nil, fmt.Errorf("%w: %q", ErrContainerNotFound, selector)
	}
	return &HTMLContainer{node: node}, nil
}

// AppendStyle adds a <style> element holding css to the end of <head>.
func (d *HTMLDocument) AppendStyle(stylesheet string) error {
	head := cascadia.Query(d.root, cascadia.MustCompile("head"))
	if head == nil {
		return fmt.Errorf("%w: head", ErrContainerNotFound)
	}

	style := &html.Node{Type: html.ElementNode, Data: "style", DataAtom: atom.Style}
	// A closing tag sequence would end the raw text element early.
	style.AppendChild(&html.Node{
		Type: html.TextNode,
		Data: strings.ReplaceAll(stylesheet, "</", `<\/`),
	})
	head.AppendChild(style)
	return nil
}

// Render writes the document as HTML.
func (d *HTMLDocument) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String returns the document as HTML.
func (d *HTMLDocument) String() string {
	var buf bytes.Buffer
	_ = d.Render(&buf)
	return buf.String()
}

// HTMLContainer is an element of an HTMLDocument.
type HTMLContainer struct {
	node *html.Node
}

// ReplaceContent replaces the element's children with the parsed fragment.
// The fragment is parsed in the context of the element, as innerHTML would.
func (c *HTMLContainer) ReplaceContent(ctx context.Context, htmlContent string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	nodes, err := html.ParseFragment(strings.NewReader(htmlContent), c.node)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrContainerUpdate, err)
	}

	for child := c.node.FirstChild; child != nil; child = c.node.FirstChild {
		c.node.RemoveChild(child)
	}
	for _, n := range nodes {
		c.node.AppendChild(n)
	}
	return nil
}

// SetStyleProperty sets one declaration of the element's style attribute,
// keeping the other declarations in place.
func (c *HTMLContainer) SetStyleProperty(ctx context.Context, name, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	decls, err := c.declarations()
	if err != nil {
		return fmt.Errorf("%w: style attribute: %v", ErrContainerUpdate, err)
	}

	found := false
	for _, decl := range decls {
		if strings.EqualFold(decl.Property, name) {
			decl.Value = value
			decl.Important = false
			found = true
		}
	}
	if !found {
		decls = append(decls, &css.Declaration{Property: name, Value: value})
	}

	parts := make([]string, 0, len(decls))
	for _, decl := range decls {
		parts = append(parts, decl.String())
	}
	c.setAttr("style", strings.Join(parts, " "))
	return nil
}

// InnerHTML returns the element's children rendered as HTML.
func (c *HTMLContainer) InnerHTML() string {
	var buf bytes.Buffer
	for child := c.node.FirstChild; child != nil; child = child.NextSibling {
		_ = html.Render(&buf, child)
	}
	return buf.String()
}

// StyleProperty returns the value of a style declaration, or "" if unset.
func (c *HTMLContainer) StyleProperty(name string) string {
	decls, err := c.declarations()
	if err != nil {
		return ""
	}
	value := ""
	for _, decl := range decls {
		if strings.EqualFold(decl.Property, name) {
			value = decl.Value
		}
	}
	return value
}

func (c *HTMLContainer) declarations() ([]*css.Declaration, error) {
	style := strings.TrimSpace(c.attr("style"))
	if style == "" {
		return nil, nil
	}
	// The parser only completes a declaration at its terminating semicolon.
	if !strings.HasSuffix(style, ";") {
		style += ";"
	}
	return cssparser.ParseDeclarations(style)
}

func (c *HTMLContainer) attr(key string) string {
	for _, a := range c.node.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func (c *HTMLContainer) setAttr(key, val string) {
	for i, a := range c.node.Attr {
		if a.Namespace == "" && a.Key == key {
			c.node.Attr[i].Val = val
			return
		}
	}
	c.node.Attr = append(c.node.Attr, html.Attribute{Key: key, Val: val})
}
