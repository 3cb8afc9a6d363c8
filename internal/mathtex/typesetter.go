package mathtex

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// Typesetter checks expressions against the enabled packages and wraps the
// engine output in a math span.
type Typesetter struct {
	engine   Engine
	commands *CommandSet
}

// NewTypesetter creates a Typesetter. A nil commands set allows every command.
func NewTypesetter(engine Engine, commands *CommandSet) (*Typesetter, error) {
	if engine == nil {
		return nil, errors.New("mathtex: nil engine")
	}
	return &Typesetter{engine: engine, commands: commands}, nil
}

// Engine returns the wrapped engine.
func (t *Typesetter) Engine() Engine {
	return t.engine
}

// Typeset renders tex. Unknown commands do not fail the render; they produce
// a visible error marker so the author can spot them.
func (t *Typesetter) Typeset(tex string, display bool) (string, error) {
	class := "math math-inline"
	if display {
		class = "math math-display"
	}

	if cmd, ok := t.commands.Unknown(tex); ok {
		return ErrorMarker("Unknown command "+cmd, tex), nil
	}

	out, err := t.engine.Typeset(tex, display)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(out) + len(class) + 22)
	b.WriteString(`<span class="`)
	b.WriteString(class)
	b.WriteString(`">`)
	b.WriteString(out)
	b.WriteString(`</span>`)
	return b.String(), nil
}

// ErrorMarker renders tex as escaped text flagged with an explanatory title.
func ErrorMarker(title, tex string) string {
	return `<span class="math math-error" title="` + html.EscapeString(title) + `">` +
		html.EscapeString(tex) + `</span>`
}
