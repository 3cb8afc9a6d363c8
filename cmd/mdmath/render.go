package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/config"
	"github.com/alnah/go-mdmath/internal/fileutil"
	"github.com/alnah/go-mdmath/internal/hints"
	"github.com/alnah/go-mdmath/internal/log"
	"github.com/reconquest/karma-go"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrReadTemplate       = errors.New("failed to read host page")
	ErrWriteHTML          = errors.New("failed to write HTML file")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrStdinWithArgs      = errors.New("--stdin does not take file arguments")
	ErrPresenterInit      = errors.New("failed to initialize presenter")
)

// maxStdinSize caps markdown read from stdin.
const maxStdinSize = 16 << 20

// runRender orchestrates the render process.
func runRender(ctx context.Context, positionalArgs []string, flags *renderFlags, env *Environment) error {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath, env.Config)
	if err != nil {
		return err
	}

	// Priority: flags > env > config file > defaults
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	renderer, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	if flags.out.stdin {
		if len(positionalArgs) > 0 {
			return ErrStdinWithArgs
		}
		return renderStdin(ctx, renderer, cfg, timeout, env)
	}

	inputPath, err := resolveInputPath(positionalArgs)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	poolSize := min(mdmath.ResolvePoolSize(workers), len(files))
	pool, err := newPresenterPool(cfg, poolSize, timeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := pool.Close(); err != nil {
			log.Warningf(err, "closing presenter pool")
		}
	}()

	log.Debugf(
		karma.Describe("files", len(files)).
			Describe("workers", pool.Size()).
			Describe("mode", cfg.Output.Mode).
			Describe("engine", renderer.EngineName()),
		"starting render",
	)

	results := renderBatch(ctx, pool, files, renderer)

	failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d file(s): %w", ErrFilesFailed, failed, len(results), firstError(results))
	}

	return nil
}

// renderStdin renders markdown read from stdin and writes the document to stdout.
func renderStdin(ctx context.Context, renderer FragmentRenderer, cfg *config.Config, timeout time.Duration, env *Environment) error {
	content, err := io.ReadAll(io.LimitReader(env.Stdin, maxStdinSize))
	if err != nil {
		return fmt.Errorf("%w: stdin: %w", ErrReadMarkdown, err)
	}

	pool, err := newPresenterPool(cfg, 1, timeout)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	presenter := pool.Acquire()
	if presenter == nil {
		return ErrPresenterInit
	}
	defer pool.Release(presenter)

	frag, renderErr := renderer.Render(ctx, string(content))
	var stageErr *mdmath.RenderError
	if renderErr != nil && (frag == "" || !errors.As(renderErr, &stageErr)) {
		return renderErr
	}
	if renderErr != nil {
		fmt.Fprintf(env.Stderr, "FALLBACK stdin: %v%s\n", renderErr, hintFor(renderErr))
	}

	out, err := presenter.Present(ctx, frag)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(env.Stdout, out); err != nil {
		return fmt.Errorf("writing stdout: %w", err)
	}
	return nil
}

// loadConfig loads the named config, falling back to the env-provided name
// and then to a copy of the base config.
func loadConfig(flagName, envName string, base *config.Config) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}

	if name == "" {
		if base == nil {
			return config.DefaultConfig(), nil
		}
		cfg := *base
		return &cfg, nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *renderFlags, cfg *config.Config) {
	// Math
	if flags.math.engine != "" {
		cfg.Math.Engine = flags.math.engine
	}
	if len(flags.math.packages) > 0 {
		cfg.Math.Packages = append([]string(nil), flags.math.packages...)
	}
	if flags.math.strict {
		cfg.Math.Strict = true
	}

	// Markdown
	if flags.markdown.noRawHTML {
		cfg.Markdown.AllowRawHTML = false
	}
	if flags.markdown.hardWraps {
		cfg.Markdown.HardWraps = true
	}
	if flags.markdown.sanitize {
		cfg.Markdown.Sanitize = true
	}
	if flags.markdown.noHighlight {
		cfg.Markdown.Highlight.Enabled = false
	}
	if flags.markdown.highlightStyle != "" {
		cfg.Markdown.Highlight.Style = flags.markdown.highlightStyle
	}

	// Page
	if flags.page.template != "" {
		cfg.Page.Template = flags.page.template
	}
	if flags.page.selector != "" {
		cfg.Page.Selector = flags.page.selector
	}
	if flags.page.display != "" {
		cfg.Output.Display = flags.page.display
	}
	if flags.page.assetPath != "" {
		cfg.Assets.BasePath = flags.page.assetPath
	}

	// Output
	if flags.out.mode != "" {
		cfg.Output.Mode = flags.out.mode
	}
	if flags.out.noFallback {
		cfg.Output.Fallback = false
	}
}

// newRenderer builds a Renderer from the validated config.
func newRenderer(cfg *config.Config) (*mdmath.Renderer, error) {
	delimiters, err := cfg.Delimiters()
	if err != nil {
		return nil, err
	}

	opts := []mdmath.Option{
		mdmath.WithDelimiters(delimiters),
		mdmath.WithEngineName(cfg.Math.Engine),
		mdmath.WithPackages(cfg.Math.Packages...),
		mdmath.WithStrictDelimiters(cfg.Math.Strict),
		mdmath.WithRawHTML(cfg.Markdown.AllowRawHTML),
		mdmath.WithHardWraps(cfg.Markdown.HardWraps),
		mdmath.WithHighlighting(cfg.Markdown.Highlight.Enabled, cfg.Markdown.Highlight.Style),
		mdmath.WithFallback(cfg.Output.Fallback),
	}
	if cfg.Markdown.Sanitize {
		opts = append(opts, mdmath.WithSanitizer(nil))
	}

	return mdmath.NewRenderer(opts...)
}

// resolveTimeout parses the --timeout flag, falling back to the env value
// and then to the default page timeout.
func resolveTimeout(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("%w: %q (use a positive duration such as 30s or 2m)", ErrInvalidTimeout, flagValue)
		}
		return d, nil
	}
	if envValue > 0 {
		return envValue, nil
	}
	return mdmath.DefaultPageTimeout, nil
}

// resolveInputPath returns the single input argument.
func resolveInputPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrNoInput
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: expected one file or directory, got %d arguments", ErrUsage, len(args))
	}
}

// resolveOutputDir picks the output directory: flag, then config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdmath.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, mdmath.ErrPageLoad):
		return hints.ForTimeout()
	case errors.Is(err, mdmath.ErrUnterminatedMath):
		return hints.ForUnterminatedMath()
	case errors.Is(err, mdmath.ErrInvalidHighlight):
		return hints.ForAvailable(styles.Names())
	case errors.Is(err, ErrWriteHTML):
		return hints.ForOutputDirectory()
	}
	return ""
}
