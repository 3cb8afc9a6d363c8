package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/config"
	"github.com/alnah/go-mdmath/internal/fileutil"
	"github.com/alnah/go-mdmath/internal/hints"
)

// Presenter turns a rendered fragment into the document written to disk.
type Presenter interface {
	Present(ctx context.Context, frag mdmath.Fragment) (string, error)
}

// Pool hands presenters out to batch workers.
type Pool interface {
	Acquire() Presenter
	Release(Presenter)
	Size() int
	Close() error
}

// fragmentPresenter writes the bare fragment.
type fragmentPresenter struct{}

func (fragmentPresenter) Present(_ context.Context, frag mdmath.Fragment) (string, error) {
	return frag.String(), nil
}

// pagePresenter presents the fragment into a fresh copy of the host page.
type pagePresenter struct {
	hostPage string
	selector string
	display  string
}

func (p *pagePresenter) Present(ctx context.Context, frag mdmath.Fragment) (string, error) {
	doc, err := mdmath.ParseHTMLDocument(strings.NewReader(p.hostPage))
	if err != nil {
		return "", err
	}
	container, err := doc.Container(p.selector)
	if err != nil {
		return "", withContainerHint(err, p.selector)
	}
	if err := mdmath.Present(ctx, frag, container, mdmath.WithDisplay(p.display)); err != nil {
		return "", err
	}
	return doc.String(), nil
}

// browserPresenter presents the fragment into the host page loaded in
// headless Chrome and returns the serialized DOM.
type browserPresenter struct {
	browser  *mdmath.Browser
	hostPage string
	selector string
	display  string
}

func (p *browserPresenter) Present(ctx context.Context, frag mdmath.Fragment) (out string, err error) {
	page, err := p.browser.OpenPage(ctx, p.hostPage)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing page: %w", closeErr)
		}
	}()

	container, err := page.Container(ctx, p.selector)
	if err != nil {
		return "", withContainerHint(err, p.selector)
	}
	if err := mdmath.Present(ctx, frag, container, mdmath.WithDisplay(p.display)); err != nil {
		return "", err
	}
	return page.HTML(ctx)
}

// withContainerHint appends the selector hint to container lookup failures.
func withContainerHint(err error, selector string) error {
	if errors.Is(err, mdmath.ErrContainerNotFound) {
		return fmt.Errorf("%w%s", err, hints.ForContainerNotFound(selector))
	}
	return err
}

// sharedPool hands the same stateless presenter to every worker.
type sharedPool struct {
	presenter Presenter
	size      int
}

func (p *sharedPool) Acquire() Presenter { return p.presenter }
func (p *sharedPool) Release(Presenter)  {}
func (p *sharedPool) Size() int          { return p.size }
func (p *sharedPool) Close() error       { return nil }

// browserPool gives each worker its own browser from an mdmath.BrowserPool.
type browserPool struct {
	pool     *mdmath.BrowserPool
	hostPage string
	selector string
	display  string
}

func (p *browserPool) Acquire() Presenter {
	b := p.pool.Acquire()
	if b == nil {
		return nil
	}
	return &browserPresenter{browser: b, hostPage: p.hostPage, selector: p.selector, display: p.display}
}

func (p *browserPool) Release(pr Presenter) {
	if bp, ok := pr.(*browserPresenter); ok {
		p.pool.Release(bp.browser)
	}
}

func (p *browserPool) Size() int    { return p.pool.Size() }
func (p *browserPool) Close() error { return p.pool.Close() }

// newPresenterPool builds the pool for the configured output mode.
func newPresenterPool(cfg *config.Config, size int, timeout time.Duration) (Pool, error) {
	if cfg.Output.Mode == config.ModeFragment {
		return &sharedPool{presenter: fragmentPresenter{}, size: size}, nil
	}

	hostPage, err := loadHostPage(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Output.Mode == config.ModeBrowser {
		return &browserPool{
			pool:     mdmath.NewBrowserPool(size, timeout),
			hostPage: hostPage,
			selector: cfg.Page.Selector,
			display:  cfg.Output.Display,
		}, nil
	}

	return &sharedPool{
		presenter: &pagePresenter{hostPage: hostPage, selector: cfg.Page.Selector, display: cfg.Output.Display},
		size:      size,
	}, nil
}

// loadHostPage resolves the host page and appends the math and highlighting
// stylesheets. A template containing a path separator is read from disk;
// otherwise it names a template of the asset loader.
func loadHostPage(cfg *config.Config) (string, error) {
	loader, err := mdmath.NewAssetLoader(cfg.Assets.BasePath)
	if err != nil {
		return "", err
	}

	var opts mdmath.HostPageOptions
	if t := cfg.Page.Template; t != "" {
		if fileutil.IsFilePath(t) {
			data, err := os.ReadFile(t) // #nosec G304 -- user-provided template
			if err != nil {
				return "", fmt.Errorf("%w: %w", ErrReadTemplate, err)
			}
			opts.HTML = string(data)
		} else {
			opts.Template = t
		}
	}

	if cfg.Markdown.Highlight.Enabled {
		opts.HighlightStyle = cfg.Markdown.Highlight.Style
		if opts.HighlightStyle == "" {
			opts.HighlightStyle = mdmath.DefaultHighlightStyle
		}
	}

	return mdmath.BuildHostPage(loader, opts)
}
