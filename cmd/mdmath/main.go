package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alnah/go-mdmath/internal/log"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrFilesFailed reports a batch with at least one failed file.
var ErrFilesFailed = errors.New("rendering failed")

func main() {
	os.Exit(run(os.Args, DefaultEnv()))
}

// run dispatches the command and returns the process exit code.
func run(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch args[1] {
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdmath %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(args[2:], env)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(args[2:], env)
	case "config":
		return runConfigCmd(args[2:], env)
	}

	return runRenderCmd(args[1:], env)
}

// runRenderCmd parses render flags, sets up logging and runs the render.
func runRenderCmd(args []string, env *Environment) int {
	flags, positional, err := parseRenderFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	initLogging(flags.common, env)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debugf(nil, format, args...)
	}))

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runRender(ctx, positional, flags, env); err != nil {
		if errors.Is(err, ErrFilesFailed) {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
		} else {
			fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// initLogging routes library logs to stderr: --verbose enables debug,
// --debug enables trace, --quiet keeps errors only.
func initLogging(f commonFlags, env *Environment) {
	log.Init(env.Stderr, f.verbose || f.debug, f.debug)
	if f.quiet {
		log.Quiet()
	}
}
