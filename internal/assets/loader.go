package assets

import "fmt"

// Names of the built-in assets.
const (
	DefaultTemplateName = "page"
	DefaultStyleName    = "math"
)

// MaxNameLength bounds asset names.
const MaxNameLength = 64

// AssetLoader loads stylesheets and host pages by name.
type AssetLoader interface {
	// LoadStyle loads a stylesheet by name, without the .css extension.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads a host page by name, without the .html extension.
	LoadTemplate(name string) (string, error)
}

// kind describes where one family of assets lives.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// file returns the slash-separated path of name relative to the asset root.
func (k kind) file(name string) string {
	return k.dir + "/" + name + k.ext
}

// ValidateAssetName accepts names made of ASCII letters, digits, '-' and '_'.
// Anything else could select a different file than the one named.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidAssetName, MaxNameLength)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}
