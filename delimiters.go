package mdmath

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alnah/go-mdmath/internal/delim"
)

// Delimiter is a left/right marker pair bounding a math span.
// Display spans are typeset as blocks and may cross line breaks.
type Delimiter struct {
	Left    string
	Right   string
	Display bool
}

// Delimiters is a validated, ordered list of delimiters. Earlier entries win
// when several open at the same position. The zero value is empty and is
// replaced by DefaultDelimiters when passed to a Renderer.
type Delimiters struct {
	list []delim.Delimiter
}

// defaultDelimiters lists the auto-render order: display markers before the
// inline markers they share a prefix with.
var defaultDelimiters = []Delimiter{
	{Left: "$$", Right: "$$", Display: true},
	{Left: `\[`, Right: `\]`, Display: true},
	{Left: "$", Right: "$", Display: false},
	{Left: `\(`, Right: `\)`, Display: false},
}

// markerSpecials may not appear in markers: markers are written back into
// HTML text unescaped and must not be split by tokenization.
const markerSpecials = "<>&\"'"

// DefaultDelimiters returns $$…$$, \[…\], $…$ and \(…\), in that order.
func DefaultDelimiters() Delimiters {
	d, err := NewDelimiters(defaultDelimiters...)
	if err != nil {
		panic("mdmath: invalid default delimiters: " + err.Error())
	}
	return d
}

// NewDelimiters validates ds and returns them as an immutable list.
func NewDelimiters(ds ...Delimiter) (Delimiters, error) {
	if err := validateDelimiters(ds); err != nil {
		return Delimiters{}, err
	}

	list := make([]delim.Delimiter, len(ds))
	for i, d := range ds {
		list[i] = delim.Delimiter{Left: d.Left, Right: d.Right, Display: d.Display}
	}
	return Delimiters{list: list}, nil
}

// DelimitersFromMathJax builds delimiters from MathJax-style inlineMath and
// displayMath pairs. Longer opening markers are ordered first; among equal
// lengths display pairs come before inline pairs.
func DelimitersFromMathJax(inline, display [][2]string) (Delimiters, error) {
	ds := make([]Delimiter, 0, len(inline)+len(display))
	for _, p := range display {
		ds = append(ds, Delimiter{Left: p[0], Right: p[1], Display: true})
	}
	for _, p := range inline {
		ds = append(ds, Delimiter{Left: p[0], Right: p[1]})
	}

	sort.SliceStable(ds, func(i, j int) bool {
		return len(ds[i].Left) > len(ds[j].Left)
	})

	return NewDelimiters(ds...)
}

// List returns a copy of the delimiters in priority order.
func (d Delimiters) List() []Delimiter {
	out := make([]Delimiter, len(d.list))
	for i, x := range d.list {
		out[i] = Delimiter{Left: x.Left, Right: x.Right, Display: x.Display}
	}
	return out
}

// Len returns the number of delimiters.
func (d Delimiters) Len() int {
	return len(d.list)
}

// String formats the delimiters for logs and diagnostics.
func (d Delimiters) String() string {
	parts := make([]string, len(d.list))
	for i, x := range d.list {
		kind := "inline"
		if x.Display {
			kind = "display"
		}
		parts[i] = fmt.Sprintf("%s…%s (%s)", x.Left, x.Right, kind)
	}
	return strings.Join(parts, ", ")
}

// validateDelimiters enforces the invariants of a delimiter list.
// Every failure is a *ConfigurationError naming the offending entry.
func validateDelimiters(ds []Delimiter) error {
	if len(ds) == 0 {
		return &ConfigurationError{Field: "delimiters", Err: ErrNoDelimiters}
	}

	for i, d := range ds {
		field := fmt.Sprintf("delimiters[%d]", i)

		if d.Left == "" || d.Right == "" {
			return &ConfigurationError{Field: field, Err: ErrEmptyMarker}
		}
		for _, marker := range []string{d.Left, d.Right} {
			if strings.ContainsAny(marker, markerSpecials) || strings.IndexFunc(marker, isSpaceRune) >= 0 {
				return &ConfigurationError{
					Field: field,
					Err:   fmt.Errorf("%w: %q", ErrInvalidMarker, marker),
				}
			}
		}

		if !isASCIIPunct(d.Left[0]) {
			return &ConfigurationError{
				Field: field,
				Err:   fmt.Errorf("%w: %q must start with ASCII punctuation", ErrInvalidMarker, d.Left),
			}
		}

		for j := 0; j < i; j++ {
			prev := ds[j]
			if prev.Left == d.Left {
				return &ConfigurationError{
					Field: field,
					Err:   fmt.Errorf("%w: %q already defined at delimiters[%d]", ErrDuplicateDelimiter, d.Left, j),
				}
			}
			if strings.HasPrefix(d.Left, prev.Left) {
				return &ConfigurationError{
					Field: field,
					Err: fmt.Errorf("%w: %q starts with %q (delimiters[%d]); order %q first",
						ErrAmbiguousDelimiter, d.Left, prev.Left, j, d.Left),
				}
			}
		}
	}

	return nil
}

func isASCIIPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') || (c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}
