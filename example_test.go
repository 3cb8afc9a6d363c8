package mdmath_test

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-mdmath"
)

// Example renders markdown with inline math.
// The tex engine emits the escaped TeX source for client-side typesetting.
func Example() {
	r, err := mdmath.NewRenderer(mdmath.WithEngineName("tex"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	frag, err := r.Render(context.Background(), "Euler: $e^{i\\pi}+1=0$")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(frag)
	// Output:
	// <p>Euler: <span class="math math-inline"><code class="math-tex">e^{i\pi}+1=0</code></span></p>
}

// Example_customDelimiters restricts math to MathJax-style pairs.
func Example_customDelimiters() {
	d, err := mdmath.DelimitersFromMathJax(
		[][2]string{{`\(`, `\)`}},
		[][2]string{{`\[`, `\]`}},
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	r, err := mdmath.NewRenderer(mdmath.WithDelimiters(d), mdmath.WithEngineName("tex"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	frag, err := r.Render(context.Background(), `Costs $5, area \(r^2\).`)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(frag)
	// Output:
	// <p>Costs $5, area <span class="math math-inline"><code class="math-tex">r^2</code></span>.</p>
}

// Example_invalidDelimiters shows configuration errors naming the entry.
func Example_invalidDelimiters() {
	_, err := mdmath.NewDelimiters(
		mdmath.Delimiter{Left: "$", Right: "$"},
		mdmath.Delimiter{Left: "$$", Right: "$$", Display: true},
	)

	var cfgErr *mdmath.ConfigurationError
	if errors.As(err, &cfgErr) {
		fmt.Println(cfgErr.Field, errors.Is(err, mdmath.ErrAmbiguousDelimiter))
	}
	// Output: delimiters[1] true
}

// Example_fallback returns the escaped source when strict delimiters fail.
func Example_fallback() {
	r, err := mdmath.NewRenderer(
		mdmath.WithEngineName("tex"),
		mdmath.WithStrictDelimiters(true),
		mdmath.WithFallback(true),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	frag, err := r.Render(context.Background(), "a <b> $c")

	var renderErr *mdmath.RenderError
	if errors.As(err, &renderErr) {
		fmt.Println(renderErr.Stage)
	}
	fmt.Println(frag)
	// Output:
	// math
	// <pre class="mdmath-fallback">a &lt;b&gt; $c</pre>
}

// ExamplePresent writes a fragment into the embedded host page.
func ExamplePresent() {
	page, err := mdmath.BuildHostPage(nil, mdmath.HostPageOptions{})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	doc, err := mdmath.ParseHTMLDocument(strings.NewReader(page))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	c, err := doc.Container(mdmath.DefaultSelector)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if err := mdmath.Present(context.Background(), "<p>done</p>", c); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(c.InnerHTML(), c.StyleProperty("display"))
	// Output: <p>done</p> block
}
