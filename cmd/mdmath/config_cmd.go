package main

import (
	"fmt"
	"io"
)

// runConfigCmd prints the effective configuration as YAML: the named config
// file, or defaults, with environment overrides applied.
func runConfigCmd(args []string, env *Environment) int {
	var name string
	switch len(args) {
	case 0:
	case 1:
		name = args[0]
	default:
		printConfigUsage(env.Stderr)
		return ExitUsage
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(name, envCfg.ConfigPath, env.Config)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	applyEnvConfig(envCfg, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	out, err := cfg.Marshal()
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitGeneral
	}
	_, _ = env.Stdout.Write(out)
	return ExitSuccess
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmath config [name|path]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration as YAML.")
	fmt.Fprintln(w, "Without an argument, MDMATH_CONFIG or the defaults are used.")
}
