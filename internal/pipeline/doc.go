// Package pipeline implements the stages behind mdmath.Renderer.
//
// A render runs the stages in order:
//   - Markdown to HTML via goldmark, with math spans shielded from markdown
//     processing by the MathPassthrough extension
//   - Optional sanitization of the HTML with bluemonday
//   - Code protection: pre/code/script/style regions swapped for placeholders
//   - Math overlay: delimited spans in text nodes replaced by engine markup
//   - Restoration of the protected regions
//
// The stages communicate through HTML strings only, so any of them can be
// replaced by an implementation of the matching interface.
package pipeline
