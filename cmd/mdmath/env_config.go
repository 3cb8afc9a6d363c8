package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdmath/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MDMATH_CONFIG: config file name or path
	Engine     string        // MDMATH_ENGINE: math engine
	Workers    int           // MDMATH_WORKERS: parallel workers
	Mode       string        // MDMATH_MODE: output mode
	OutputDir  string        // MDMATH_OUTPUT_DIR: default output directory
	Timeout    time.Duration // MDMATH_TIMEOUT: browser page timeout
}

// knownEnvVars lists valid MDMATH_* environment variables.
var knownEnvVars = map[string]bool{
	"MDMATH_CONFIG":     true,
	"MDMATH_ENGINE":     true,
	"MDMATH_WORKERS":    true,
	"MDMATH_MODE":       true,
	"MDMATH_OUTPUT_DIR": true,
	"MDMATH_TIMEOUT":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDMATH_CONFIG"),
		Engine:     os.Getenv("MDMATH_ENGINE"),
		Mode:       os.Getenv("MDMATH_MODE"),
		OutputDir:  os.Getenv("MDMATH_OUTPUT_DIR"),
	}

	if timeout := os.Getenv("MDMATH_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MDMATH_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for each unrecognized MDMATH_* variable.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MDMATH_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment values over the loaded config.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Engine != "" {
		cfg.Math.Engine = env.Engine
	}
	if env.Mode != "" {
		cfg.Output.Mode = env.Mode
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
}
