// Package mathtex typesets TeX expressions into HTML markup.
//
// An Engine produces the raw markup for one expression. A Typesetter wraps an
// engine with the enabled TeX packages: expressions using a command that no
// enabled package provides are rendered as a visible error marker, and all
// output is wrapped in a span carrying the math classes.
package mathtex

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for engine and package resolution.
var (
	ErrUnknownEngine  = errors.New("unknown math engine")
	ErrUnknownPackage = errors.New("unknown TeX package")
	ErrEmptyOutput    = errors.New("engine produced no markup")
)

// DefaultEngine is the engine used when none is configured.
const DefaultEngine = "mathml"

// Engine typesets a single TeX expression.
type Engine interface {
	Name() string
	Typeset(tex string, display bool) (string, error)
}

// engines maps engine names to constructors.
var engines = map[string]func() Engine{
	"mathml": func() Engine { return NewMathMLEngine() },
	"tex":    func() Engine { return NewTeXEngine() },
}

// Lookup returns a new engine by name.
func Lookup(name string) (Engine, error) {
	if name == "" {
		name = DefaultEngine
	}
	newEngine, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownEngine, name, Names())
	}
	return newEngine(), nil
}

// Names returns the registered engine names, sorted.
func Names() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
