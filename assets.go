package mdmath

import (
	"errors"
	"strings"

	"github.com/alnah/go-mdmath/internal/assets"
	"github.com/alnah/go-mdmath/internal/pipeline"
)

// Names of the built-in assets.
const (
	// DefaultStyle is the stylesheet for math, error and fallback classes.
	DefaultStyle = assets.DefaultStyleName

	// DefaultTemplate is the host page with a hidden #content container.
	DefaultTemplate = assets.DefaultTemplateName
)

// AssetLoader loads stylesheets and host page templates by name.
//
// The library provides NewAssetLoader for filesystem-based loading with
// fallback to embedded defaults. Implement this interface for custom backends.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads a host page by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader creates an AssetLoader for the given base path.
// If basePath is empty, returns a loader using only embedded assets.
// If basePath is set, custom assets take precedence with fallback to embedded.
//
// The basePath directory should contain:
//   - styles/{name}.css for stylesheets
//   - templates/{name}.html for host pages
//
// Returns ErrInvalidAssetPath if basePath is set but not a readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{resolver: resolver}, nil
}

// assetLoaderAdapter wraps the internal resolver to return public errors.
type assetLoaderAdapter struct {
	resolver *assets.AssetResolver
}

func (a *assetLoaderAdapter) LoadStyle(name string) (string, error) {
	content, err := a.resolver.LoadStyle(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

func (a *assetLoaderAdapter) LoadTemplate(name string) (string, error) {
	content, err := a.resolver.LoadTemplate(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

// HostPageOptions configures BuildHostPage.
type HostPageOptions struct {
	// HTML is the host page markup. Empty loads Template from the loader.
	HTML string

	// Template names the host page to load when HTML is empty.
	// Empty selects DefaultTemplate.
	Template string

	// Style names the stylesheet added to <head>. Empty selects DefaultStyle.
	Style string

	// HighlightStyle adds the chroma stylesheet for highlighted code when set.
	HighlightStyle string
}

// BuildHostPage returns a host page with the math stylesheet, and optionally
// the highlighting stylesheet, appended to its <head>.
// A nil loader uses the embedded assets.
func BuildHostPage(loader AssetLoader, opts HostPageOptions) (string, error) {
	if loader == nil {
		var err error
		if loader, err = NewAssetLoader(""); err != nil {
			return "", err
		}
	}

	page := opts.HTML
	if page == "" {
		name := opts.Template
		if name == "" {
			name = DefaultTemplate
		}
		var err error
		if page, err = loader.LoadTemplate(name); err != nil {
			return "", err
		}
	}

	styleName := opts.Style
	if styleName == "" {
		styleName = DefaultStyle
	}
	style, err := loader.LoadStyle(styleName)
	if err != nil {
		return "", err
	}

	doc, err := ParseHTMLDocument(strings.NewReader(page))
	if err != nil {
		return "", err
	}
	if err := doc.AppendStyle(style); err != nil {
		return "", err
	}

	if opts.HighlightStyle != "" {
		css, err := pipeline.HighlightCSS(opts.HighlightStyle)
		if err != nil {
			return "", err
		}
		if err := doc.AppendStyle(css); err != nil {
			return "", err
		}
	}

	return doc.String(), nil
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, assets.ErrStyleNotFound):
		return wrapError(ErrStyleNotFound, err)
	case errors.Is(err, assets.ErrTemplateNotFound):
		return wrapError(ErrTemplateNotFound, err)
	case errors.Is(err, assets.ErrInvalidBasePath),
		errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidAssetPath, err)
	case errors.Is(err, assets.ErrInvalidAssetName):
		return wrapError(ErrInvalidAssetPath, err)
	default:
		return err
	}
}

// wrapError creates an error that keeps the original message and matches
// the public sentinel with errors.Is.
func wrapError(sentinel, original error) error {
	return &wrappedAssetError{sentinel: sentinel, original: original}
}

type wrappedAssetError struct {
	sentinel error
	original error
}

func (e *wrappedAssetError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel; internal errors are not exposed.
func (e *wrappedAssetError) Unwrap() error {
	return e.sentinel
}
