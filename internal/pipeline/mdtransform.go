package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// Placeholders use Unicode Private Use Area characters. They carry no math
// markers, so the math stage passes them through unchanged. Occurrences
// typed by the user are turned into escape placeholders by EscapeReserved
// before any stage runs, so every placeholder seen later is ours.
const (
	CodeStartPlaceholder   = "\uE010" // U+E010: Private Use Area
	CodeEndPlaceholder     = "\uE011" // U+E011: Private Use Area
	EscapeStartPlaceholder = "\uE012" // U+E012: Private Use Area
	EscapeEndPlaceholder   = "\uE013" // U+E013: Private Use Area
)

const reservedRunes = CodeStartPlaceholder + CodeEndPlaceholder + EscapeStartPlaceholder + EscapeEndPlaceholder

// Precompiled regex patterns for performance.
var (
	// Elements whose content is never typeset. Nested elements of the same
	// name do not occur in goldmark output.
	codeRegionPattern = regexp.MustCompile(
		`(?is)<pre\b.*?</pre>|<code\b.*?</code>|<script\b.*?</script>|<style\b.*?</style>|<textarea\b.*?</textarea>`,
	)

	placeholderPattern = regexp.MustCompile(CodeStartPlaceholder + `(\d+)` + CodeEndPlaceholder)

	escapePattern = regexp.MustCompile(EscapeStartPlaceholder + `(\d+)` + EscapeEndPlaceholder)

	reservedReplacer = strings.NewReplacer(
		CodeStartPlaceholder, EscapePlaceholder('\uE010'),
		CodeEndPlaceholder, EscapePlaceholder('\uE011'),
		EscapeStartPlaceholder, EscapePlaceholder('\uE012'),
		EscapeEndPlaceholder, EscapePlaceholder('\uE013'),
	)
)

// EscapePlaceholder stands for the character r until RestoreEscapes turns
// it into a numeric character reference. Sanitizers decode references in
// text, a placeholder survives them.
func EscapePlaceholder(r rune) string {
	return EscapeStartPlaceholder + strconv.Itoa(int(r)) + EscapeEndPlaceholder
}

// EscapeReserved replaces the placeholder code points in input with escape
// placeholders.
func EscapeReserved(input string) string {
	if !strings.ContainsAny(input, reservedRunes) {
		return input
	}
	return reservedReplacer.Replace(input)
}

// RestoreEscapes turns escape placeholders into numeric character references.
func RestoreEscapes(s string) string {
	if !strings.Contains(s, EscapeStartPlaceholder) {
		return s
	}
	return escapePattern.ReplaceAllString(s, "&#$1;")
}

// ProtectCode swaps code regions of htmlContent for placeholders.
// The returned restore function puts the regions back into its argument.
func ProtectCode(htmlContent string) (string, func(string) string) {
	var regions []string

	protected := codeRegionPattern.ReplaceAllStringFunc(htmlContent, func(region string) string {
		regions = append(regions, region)
		return CodeStartPlaceholder + strconv.Itoa(len(regions)-1) + CodeEndPlaceholder
	})

	restore := func(s string) string {
		if len(regions) == 0 {
			return s
		}
		return placeholderPattern.ReplaceAllStringFunc(s, func(ph string) string {
			idx, err := strconv.Atoi(strings.Trim(ph, CodeStartPlaceholder+CodeEndPlaceholder))
			if err != nil || idx < 0 || idx >= len(regions) {
				return ph
			}
			return regions[idx]
		})
	}

	return protected, restore
}
