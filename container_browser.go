package mdmath

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/alnah/go-mdmath/internal/process"
	"github.com/andybalholm/cascadia"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultPageTimeout bounds the wait for a host page to load.
const DefaultPageTimeout = 30 * time.Second

// Browser is a headless Chrome instance used to present fragments in live
// pages. Rod downloads Chromium on first use if none is found.
// The connection is established on the first OpenPage call.
type Browser struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// NewBrowser creates a Browser. A non-positive timeout selects DefaultPageTimeout.
func NewBrowser(timeout time.Duration) *Browser {
	if timeout <= 0 {
		timeout = DefaultPageTimeout
	}
	return &Browser{timeout: timeout}
}

// ensureBrowser lazily connects to the browser. Callers hold b.mu.
func (b *Browser) ensureBrowser() error {
	if b.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	b.browser = browser
	b.launcher = l
	return nil
}

// OpenPage loads hostHTML into a new tab.
func (b *Browser) OpenPage(ctx context.Context, hostHTML string) (*BrowserPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	if err := b.ensureBrowser(); err != nil {
		b.mu.Unlock()
		return nil, err
	}
	browser := b.browser
	b.mu.Unlock()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			_ = page.Close()
			return nil, context.DeadlineExceeded
		}
	}

	loading := page.Context(ctx).Timeout(timeout)
	defer loading.CancelTimeout()

	if err := loading.SetDocumentContent(hostHTML); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := loading.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	return &BrowserPage{page: page}, nil
}

// Close releases browser resources.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil

	// Chrome leaves renderer and GPU helpers behind when only the
	// main process exits.
	if b.launcher != nil {
		if pid := b.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}

// BrowserPage is a tab of a Browser holding a host page.
type BrowserPage struct {
	page *rod.Page
}

// Container returns the first element matching the CSS selector.
// It does not wait for the element to appear.
func (p *BrowserPage) Container(ctx context.Context, selector string) (*BrowserContainer, error) {
	if _, err := cascadia.Compile(selector); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, selector, err)
	}

	found, el, err := p.page.Context(ctx).Has(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, selector, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrContainerNotFound, selector)
	}
	return &BrowserContainer{el: el}, nil
}

// HTML returns the current serialized DOM of the page.
func (p *BrowserPage) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

// Close closes the tab.
func (p *BrowserPage) Close() error {
	return p.page.Close()
}

// BrowserContainer is an element of a live page.
type BrowserContainer struct {
	el *rod.Element
}

// ReplaceContent assigns the element's innerHTML.
func (c *BrowserContainer) ReplaceContent(ctx context.Context, htmlContent string) error {
	if _, err := c.el.Context(ctx).Eval(`(html) => { this.innerHTML = html }`, htmlContent); err != nil {
		return fmt.Errorf("%w: %v", ErrContainerUpdate, err)
	}
	return nil
}

// SetStyleProperty sets one property of the element's inline style.
func (c *BrowserContainer) SetStyleProperty(ctx context.Context, name, value string) error {
	if _, err := c.el.Context(ctx).Eval(`(name, value) => this.style.setProperty(name, value)`, name, value); err != nil {
		return fmt.Errorf("%w: %v", ErrContainerUpdate, err)
	}
	return nil
}

// InnerHTML returns the element's current innerHTML.
func (c *BrowserContainer) InnerHTML(ctx context.Context) (string, error) {
	res, err := c.el.Context(ctx).Eval(`() => this.innerHTML`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// StyleProperty returns the value of one property of the element's inline style.
func (c *BrowserContainer) StyleProperty(ctx context.Context, name string) (string, error) {
	res, err := c.el.Context(ctx).Eval(`(name) => this.style.getPropertyValue(name)`, name)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}
