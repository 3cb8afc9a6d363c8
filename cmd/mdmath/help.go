package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmath [flags] <file.md|dir>")
	fmt.Fprintln(w, "       mdmath <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markdown with TeX math to HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  doctor     Check browser and environment for --mode browser")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdmath help render' for the render flags.")
}

// printRenderUsage prints usage for rendering.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmath [flags] <file.md|dir>")
	fmt.Fprintln(w, "       mdmath --stdin [flags] < input.md > output.html")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markdown files to HTML. Directories are walked recursively.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>          Output directory (default: next to source)")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>           Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>           Browser page timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --stdin                 Read markdown from stdin, write to stdout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Math:")
	fmt.Fprintln(w, "      --engine <s>            Engine: mathml, tex")
	fmt.Fprintln(w, "      --packages <list>       TeX packages: base, ams, color, cancel")
	fmt.Fprintln(w, "      --strict                Fail on unterminated delimiters")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Markdown:")
	fmt.Fprintln(w, "      --no-raw-html           Escape raw HTML in markdown")
	fmt.Fprintln(w, "      --hard-wraps            Render newlines as line breaks")
	fmt.Fprintln(w, "      --sanitize              Sanitize HTML before typesetting")
	fmt.Fprintln(w, "      --no-highlight          Disable code highlighting")
	fmt.Fprintln(w, "      --highlight-style <s>   Chroma style (default: github)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Form:")
	fmt.Fprintln(w, "      --mode <s>              fragment, page, browser")
	fmt.Fprintln(w, "      --template <s>          Host page name or path")
	fmt.Fprintln(w, "      --selector <s>          Container selector (default: #content)")
	fmt.Fprintln(w, "      --display <s>           Display value set on the container")
	fmt.Fprintln(w, "      --asset-path <dir>      Directory with styles/ and templates/")
	fmt.Fprintln(w, "      --no-fallback           Write nothing when rendering fails")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Show detailed timing and debug logs")
	fmt.Fprintln(w, "      --debug                 Show pipeline trace logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDMATH_CONFIG, MDMATH_ENGINE, MDMATH_WORKERS, MDMATH_MODE,")
	fmt.Fprintln(w, "  MDMATH_OUTPUT_DIR, MDMATH_TIMEOUT (flags take precedence)")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: mdmath doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check that Chrome is available for --mode browser.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdmath version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdmath help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
