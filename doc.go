// Package mdmath renders Markdown with embedded TeX math into HTML fragments.
//
// # Quick Start
//
// Create a renderer once and reuse it; it is safe for concurrent use:
//
//	r, err := mdmath.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	frag, err := r.Render(ctx, "# Title\n\nInline $a+b$ and block:\n\n$$c=d$$")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(frag)
//
// # Render Pipeline
//
// Render runs these stages, in order:
//
//  1. Markdown to HTML via goldmark (GFM, footnotes, syntax highlighting).
//     Delimited math spans pass through untouched; raw HTML is allowed.
//  2. Optional sanitization via bluemonday (WithSanitizer).
//  3. Math typesetting over the HTML text. Code regions are skipped.
//
// A failing stage yields a *RenderError naming the stage. WithFallback makes
// Render also return the escaped input in a <pre> block.
//
// # Delimiters
//
// The default delimiters are $$...$$ and \[...\] for display math and
// $...$ and \(...\) for inline math. Earlier delimiters take priority:
//
//	d, err := mdmath.NewDelimiters(
//	    mdmath.Delimiter{Left: "$$", Right: "$$", Display: true},
//	    mdmath.Delimiter{Left: "$", Right: "$"},
//	)
//	r, err := mdmath.NewRenderer(mdmath.WithDelimiters(d))
//
// Invalid delimiter sets make NewRenderer fail with a *ConfigurationError.
//
// # Engines and Packages
//
// The "mathml" engine emits MathML; the "tex" engine emits the escaped TeX
// source for client-side typesetting. Commands outside the enabled packages
// (WithPackages, default base and ams) render as a visible error marker.
//
// # Presenting
//
// Present writes a fragment into a Container and makes it visible. Two
// containers are provided: HTMLContainer edits a parsed host page in memory,
// BrowserContainer edits an element of a live page in headless Chrome.
//
//	page, err := mdmath.BuildHostPage(nil, mdmath.HostPageOptions{})
//	doc, err := mdmath.ParseHTMLDocument(strings.NewReader(page))
//	c, err := doc.Container(mdmath.DefaultSelector)
//	err = mdmath.Present(ctx, frag, c)
//	err = doc.Render(os.Stdout)
//
// # Security
//
// Fragments are trusted HTML and Present inserts them without escaping.
// Raw HTML in the markdown source is passed through by default. Render
// untrusted input only with WithSanitizer, or disable raw HTML with
// WithRawHTML(false).
//
// # Browser Requirements
//
// BrowserContainer requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=true to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package mdmath
