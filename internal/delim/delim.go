// Package delim matches math delimiter pairs in text.
//
// The same matching rules are used by the markdown stage (to keep math spans
// away from emphasis and escape processing) and by the math stage (to find the
// spans again in the produced HTML), so both stages agree on what is math.
//
// Rules:
//   - An opening marker preceded by a backslash is not an opener.
//   - Inside a span, a backslash escapes the next byte unless the closing
//     marker starts at the backslash (as in \( ... \)).
//   - Inline spans never cross a newline; display spans may.
//   - For inline "dollar style" markers (left == right, not starting with a
//     backslash) the content must not start or end with whitespace and must
//     not be empty. This keeps "costs $5 and $10" as plain text.
package delim

import "strings"

// Delimiter is a left/right marker pair bounding a math span.
type Delimiter struct {
	Left    string
	Right   string
	Display bool
}

// dollarStyle reports whether the flanking rules apply to d.
func (d Delimiter) dollarStyle() bool {
	return !d.Display && d.Left == d.Right && !strings.HasPrefix(d.Left, `\`)
}

// Opens reports whether d opens at s[i:].
func Opens(s string, i int, d Delimiter) bool {
	if !strings.HasPrefix(s[i:], d.Left) {
		return false
	}
	if i > 0 && s[i-1] == '\\' {
		return false
	}
	if d.dollarStyle() {
		next := i + len(d.Left)
		if next >= len(s) || isSpace(s[next]) {
			return false
		}
	}
	return true
}

// Close returns the index of the closing marker of a span whose content
// starts at from, or -1 if the span is not terminated.
func Close(s string, from int, d Delimiter) int {
	for j := from; j < len(s); j++ {
		if strings.HasPrefix(s[j:], d.Right) {
			if d.dollarStyle() && (j == from || isSpace(s[j-1])) {
				continue
			}
			if j == from && d.Left == d.Right {
				continue
			}
			return j
		}
		switch s[j] {
		case '\\':
			j++
		case '\n':
			if !d.Display {
				return -1
			}
		}
	}
	return -1
}

// Kind classifies a Segment.
type Kind int

// Segment kinds.
const (
	Text Kind = iota
	Math
	Unterminated
)

// Segment is a piece of text produced by Split.
// For Math, Value holds the content between the markers.
// For Unterminated, Value holds the opening marker that found no partner.
type Segment struct {
	Kind      Kind
	Value     string
	Delimiter Delimiter
}

// Split cuts s into text and math segments using ds in priority order.
func Split(s string, ds []Delimiter) []Segment {
	var (
		out  []Segment
		last int
	)

	flush := func(end int) {
		if end > last {
			out = append(out, Segment{Kind: Text, Value: s[last:end]})
		}
	}

	for i := 0; i < len(s); {
		d, ok := OpenerAt(s, i, ds)
		if !ok {
			i++
			continue
		}

		start := i + len(d.Left)
		end := Close(s, start, d)
		flush(i)
		if end < 0 {
			out = append(out, Segment{Kind: Unterminated, Value: d.Left, Delimiter: d})
			i = start
			last = i
			continue
		}

		out = append(out, Segment{Kind: Math, Value: s[start:end], Delimiter: d})
		i = end + len(d.Right)
		last = i
	}
	flush(len(s))

	return out
}

// OpenerAt returns the first delimiter of ds opening at s[i:].
func OpenerAt(s string, i int, ds []Delimiter) (Delimiter, bool) {
	for _, d := range ds {
		if Opens(s, i, d) {
			return d, true
		}
	}
	return Delimiter{}, false
}

// StartBytes returns the distinct first bytes of the left markers.
func StartBytes(ds []Delimiter) []byte {
	var out []byte
	for _, d := range ds {
		if d.Left == "" {
			continue
		}
		c := d.Left[0]
		if strings.IndexByte(string(out), c) < 0 {
			out = append(out, c)
		}
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
