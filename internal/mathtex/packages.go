package mathtex

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultPackages are enabled when no package list is configured.
var DefaultPackages = []string{"base", "ams"}

// Control sequences provided by each package. Single-character commands
// (\, \{ \\ and friends) are always allowed.
var packageCommands = map[string][]string{
	"base": {
		// Greek
		"alpha", "beta", "gamma", "delta", "epsilon", "varepsilon", "zeta", "eta",
		"theta", "vartheta", "iota", "kappa", "lambda", "mu", "nu", "xi", "pi",
		"varpi", "rho", "varrho", "sigma", "varsigma", "tau", "upsilon", "phi",
		"varphi", "chi", "psi", "omega", "Gamma", "Delta", "Theta", "Lambda",
		"Xi", "Pi", "Sigma", "Upsilon", "Phi", "Psi", "Omega",
		// Structure
		"frac", "sqrt", "over", "choose", "left", "right", "middle", "big", "Big",
		"bigg", "Bigg", "bigl", "bigr", "Bigl", "Bigr", "begin", "end", "limits",
		"nolimits", "displaystyle", "textstyle", "scriptstyle", "overline",
		"underline", "overbrace", "underbrace", "stackrel", "mathrm", "mathit",
		"mathbf", "mathsf", "mathtt", "mathcal", "rm", "it", "bf", "hat", "bar",
		"vec", "dot", "ddot", "tilde", "widehat", "widetilde", "acute", "grave",
		"check", "breve", "quad", "qquad", "hspace", "vspace", "phantom", "mbox",
		"hbox", "cr", "operatorname",
		// Large operators and functions
		"sum", "prod", "coprod", "int", "oint", "bigcup", "bigcap", "bigoplus",
		"bigotimes", "lim", "limsup", "liminf", "sup", "inf", "max", "min", "sin",
		"cos", "tan", "cot", "sec", "csc", "arcsin", "arccos", "arctan", "sinh",
		"cosh", "tanh", "log", "ln", "lg", "exp", "det", "dim", "ker", "deg",
		"gcd", "arg", "Pr", "hom", "bmod", "pmod", "mod",
		// Relations and operators
		"le", "leq", "ge", "geq", "ne", "neq", "approx", "equiv", "sim", "simeq",
		"cong", "propto", "ll", "gg", "subset", "subseteq", "supset", "supseteq",
		"in", "notin", "ni", "mid", "parallel", "perp", "to", "gets",
		"rightarrow", "leftarrow", "Rightarrow", "Leftarrow", "leftrightarrow",
		"Leftrightarrow", "mapsto", "implies", "iff", "uparrow", "downarrow",
		"times", "div", "cdot", "pm", "mp", "ast", "star", "circ", "bullet",
		"oplus", "otimes", "cup", "cap", "setminus", "wedge", "vee", "land",
		"lor", "lnot", "neg", "forall", "exists", "nexists", "partial", "nabla",
		"infty", "emptyset", "varnothing", "ldots", "cdots", "vdots", "ddots",
		"dots", "prime", "angle", "triangle", "langle", "rangle", "lfloor",
		"rfloor", "lceil", "rceil", "vert", "Vert", "lbrace", "rbrace",
		"backslash", "aleph", "hbar", "ell", "Re", "Im", "wp", "not",
	},
	"ams": {
		"text", "textbf", "textit", "textrm", "mathbb", "mathfrak", "mathscr",
		"boldsymbol", "dfrac", "tfrac", "binom", "dbinom", "tbinom", "cfrac",
		"iint", "iiint", "oiint", "lvert", "rvert", "lVert", "rVert", "tag",
		"notag", "nonumber", "intertext", "substack", "xrightarrow",
		"xleftarrow", "leqslant", "geqslant", "lesssim", "gtrsim", "nleq",
		"ngeq", "varliminf", "varlimsup", "therefore", "because", "blacksquare",
		"square", "checkmark", "mathring", "overset", "underset", "DeclareMathOperator",
		"eqref", "dddot", "impliedby", "coloneqq",
	},
	"color": {
		"color", "textcolor", "colorbox", "fcolorbox", "definecolor",
	},
	"cancel": {
		"cancel", "bcancel", "xcancel", "cancelto",
	},
}

// Environments provided by each package.
var packageEnvironments = map[string][]string{
	"base": {"array", "matrix", "cases"},
	"ams": {
		"align", "align*", "aligned", "gather", "gather*", "gathered",
		"equation", "equation*", "split", "multline", "multline*", "pmatrix",
		"bmatrix", "Bmatrix", "vmatrix", "Vmatrix", "smallmatrix", "subarray",
		"alignat", "alignat*", "dcases", "rcases",
	},
}

var (
	commandPattern     = regexp.MustCompile(`\\\\|\\([a-zA-Z]+)`)
	environmentPattern = regexp.MustCompile(`\\begin\s*\{([^}]*)\}`)
)

// PackageNames returns the known package names, sorted.
func PackageNames() []string {
	names := make([]string, 0, len(packageCommands))
	for name := range packageCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommandSet is the set of control sequences and environments enabled by a
// list of packages. A nil *CommandSet allows everything.
type CommandSet struct {
	packages     []string
	commands     map[string]bool
	environments map[string]bool
}

// NewCommandSet resolves package names into a CommandSet.
// base is always enabled; an empty list selects DefaultPackages.
func NewCommandSet(packages []string) (*CommandSet, error) {
	if len(packages) == 0 {
		packages = DefaultPackages
	}

	cs := &CommandSet{
		commands:     make(map[string]bool),
		environments: make(map[string]bool),
	}

	enabled := map[string]bool{"base": true}
	for _, name := range packages {
		name = strings.TrimSpace(name)
		if _, ok := packageCommands[name]; !ok {
			return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPackage, name, PackageNames())
		}
		enabled[name] = true
	}

	for name := range enabled {
		cs.packages = append(cs.packages, name)
		for _, c := range packageCommands[name] {
			cs.commands[c] = true
		}
		for _, env := range packageEnvironments[name] {
			cs.environments[env] = true
		}
	}
	sort.Strings(cs.packages)

	return cs, nil
}

// Packages returns the enabled package names, sorted.
func (cs *CommandSet) Packages() []string {
	if cs == nil {
		return nil
	}
	return append([]string(nil), cs.packages...)
}

// Unknown returns the first control sequence or environment in tex that no
// enabled package provides, formatted as written in TeX.
func (cs *CommandSet) Unknown(tex string) (string, bool) {
	if cs == nil {
		return "", false
	}
	for _, m := range commandPattern.FindAllStringSubmatch(tex, -1) {
		if m[1] != "" && !cs.commands[m[1]] {
			return `\` + m[1], true
		}
	}
	for _, m := range environmentPattern.FindAllStringSubmatch(tex, -1) {
		if !cs.environments[strings.TrimSpace(m[1])] {
			return `\begin{` + m[1] + `}`, true
		}
	}
	return "", false
}
