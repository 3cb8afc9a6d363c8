package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid value")
)

// Field length limits.
const (
	MaxPathLength      = 4096
	MaxSelectorLength  = 256
	MaxMarkerLength    = 16
	MaxDelimiters      = 16
	MaxPackages        = 16
	MaxStyleNameLength = 64
	MaxDisplayLength   = 32
)

// Output modes.
const (
	ModeFragment = "fragment" // bare HTML fragment
	ModePage     = "page"     // fragment presented in the host page
	ModeBrowser  = "browser"  // host page presented in headless Chrome, DOM serialized
)

// configDirName is the directory searched under the user config dir.
const configDirName = "go-mdmath"

var displayPattern = regexp.MustCompile(`^[a-z-]+$`)

// Config holds all configuration for rendering.
type Config struct {
	Math     MathConfig     `yaml:"math"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Output   OutputConfig   `yaml:"output"`
	Page     PageConfig     `yaml:"page"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// MathConfig defines math recognition and typesetting.
type MathConfig struct {
	Engine   string   `yaml:"engine"`   // "mathml" or "tex"
	Packages []string `yaml:"packages"` // MathJax package names
	Strict   bool     `yaml:"strict"`   // unterminated delimiters are errors

	// Delimiters, if set, is the ordered list and wins over InlineMath and DisplayMath.
	Delimiters  []DelimiterConfig `yaml:"delimiters,omitempty"`
	InlineMath  [][]string        `yaml:"inlineMath,omitempty"`
	DisplayMath [][]string        `yaml:"displayMath,omitempty"`
}

// DelimiterConfig is one delimiter pair.
type DelimiterConfig struct {
	Left    string `yaml:"left"`
	Right   string `yaml:"right"`
	Display bool   `yaml:"display"`
}

// MarkdownConfig defines the markdown stage.
type MarkdownConfig struct {
	AllowRawHTML bool            `yaml:"allowRawHtml"`
	HardWraps    bool            `yaml:"hardWraps"`
	Sanitize     bool            `yaml:"sanitize"`
	Highlight    HighlightConfig `yaml:"highlight"`
}

// HighlightConfig defines syntax highlighting of fenced code.
type HighlightConfig struct {
	Enabled bool   `yaml:"enabled"`
	Style   string `yaml:"style"` // chroma style name
}

// OutputConfig defines output destination and form.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
	Mode       string `yaml:"mode"`       // fragment, page or browser
	Fallback   bool   `yaml:"fallback"`   // write escaped source when rendering fails
	Display    string `yaml:"display"`    // display value set on the container
}

// PageConfig defines the host page used by page and browser modes.
type PageConfig struct {
	Template string `yaml:"template"` // host page path, empty = embedded
	Selector string `yaml:"selector"` // container selector
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Math: MathConfig{
			Engine:   mdmath.DefaultEngine,
			Packages: []string{"base", "ams"},
		},
		Markdown: MarkdownConfig{
			AllowRawHTML: true,
			Highlight:    HighlightConfig{Enabled: true, Style: "github"},
		},
		Output: OutputConfig{
			Mode:     ModeFragment,
			Fallback: true,
			Display:  mdmath.DefaultDisplay,
		},
		Page: PageConfig{
			Selector: mdmath.DefaultSelector,
		},
	}
}

// Validate checks enum values, field lengths and delimiters.
// Called automatically by LoadConfig.
func (c *Config) Validate() error {
	if c.Math.Engine != "" && !slices.Contains(mdmath.EngineNames(), c.Math.Engine) {
		return fmt.Errorf("%w: math.engine %q (available: %s)",
			ErrInvalidValue, c.Math.Engine, strings.Join(mdmath.EngineNames(), ", "))
	}

	if len(c.Math.Packages) > MaxPackages {
		return fmt.Errorf("%w: math.packages (%d entries, max %d)", ErrFieldTooLong, len(c.Math.Packages), MaxPackages)
	}
	for i, p := range c.Math.Packages {
		if !slices.Contains(mdmath.PackageNames(), p) {
			return fmt.Errorf("%w: math.packages[%d] %q (available: %s)",
				ErrInvalidValue, i, p, strings.Join(mdmath.PackageNames(), ", "))
		}
	}

	if err := c.validateDelimiters(); err != nil {
		return err
	}

	if err := validateFieldLength("markdown.highlight.style", c.Markdown.Highlight.Style, MaxStyleNameLength); err != nil {
		return err
	}
	if c.Markdown.Highlight.Enabled && c.Markdown.Highlight.Style != "" {
		if _, ok := styles.Registry[c.Markdown.Highlight.Style]; !ok {
			return fmt.Errorf("%w: %w: markdown.highlight.style %q", ErrInvalidValue, mdmath.ErrInvalidHighlight, c.Markdown.Highlight.Style)
		}
	}

	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	switch c.Output.Mode {
	case "", ModeFragment, ModePage, ModeBrowser:
	default:
		return fmt.Errorf("%w: output.mode %q (must be fragment, page, or browser)", ErrInvalidValue, c.Output.Mode)
	}
	if err := validateFieldLength("output.display", c.Output.Display, MaxDisplayLength); err != nil {
		return err
	}
	if c.Output.Display != "" && !displayPattern.MatchString(c.Output.Display) {
		return fmt.Errorf("%w: output.display %q", ErrInvalidValue, c.Output.Display)
	}

	if err := validateFieldLength("page.template", c.Page.Template, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.selector", c.Page.Selector, MaxSelectorLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateDelimiters() error {
	if n := len(c.Math.Delimiters) + len(c.Math.InlineMath) + len(c.Math.DisplayMath); n > MaxDelimiters {
		return fmt.Errorf("%w: math delimiters (%d entries, max %d)", ErrFieldTooLong, n, MaxDelimiters)
	}

	for i, d := range c.Math.Delimiters {
		if err := validateFieldLength(fmt.Sprintf("math.delimiters[%d]", i), d.Left+d.Right, 2*MaxMarkerLength); err != nil {
			return err
		}
	}
	lists := []struct {
		name  string
		pairs [][]string
	}{
		{"inlineMath", c.Math.InlineMath},
		{"displayMath", c.Math.DisplayMath},
	}
	for _, l := range lists {
		for i, p := range l.pairs {
			if len(p) != 2 {
				return fmt.Errorf("%w: math.%s[%d] must be a [left, right] pair", ErrInvalidValue, l.name, i)
			}
		}
	}

	_, err := c.Delimiters()
	return err
}

// Delimiters builds the configured delimiters: the explicit ordered list if
// present, else the MathJax-style lists, else the defaults.
func (c *Config) Delimiters() (mdmath.Delimiters, error) {
	if len(c.Math.Delimiters) > 0 {
		ds := make([]mdmath.Delimiter, len(c.Math.Delimiters))
		for i, d := range c.Math.Delimiters {
			ds[i] = mdmath.Delimiter{Left: d.Left, Right: d.Right, Display: d.Display}
		}
		return mdmath.NewDelimiters(ds...)
	}

	if len(c.Math.InlineMath) > 0 || len(c.Math.DisplayMath) > 0 {
		return mdmath.DelimitersFromMathJax(toPairs(c.Math.InlineMath), toPairs(c.Math.DisplayMath))
	}

	return mdmath.DefaultDelimiters(), nil
}

func toPairs(in [][]string) [][2]string {
	out := make([][2]string, 0, len(in))
	for _, p := range in {
		if len(p) == 2 {
			out = append(out, [2]string{p[0], p[1]})
		}
	}
	return out
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := unmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the candidate files for a config name, in lookup order:
// current directory, then ~/.config/go-mdmath/, each with .yaml then .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, configDirName, name+ext))
		}
	}

	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
