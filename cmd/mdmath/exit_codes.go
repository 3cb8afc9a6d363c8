package main

import (
	"errors"
	"os"

	"github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/config"
)

// Exit codes for mdmath CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful render
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitRender  = 5 // Markdown or math stage failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdmath.ErrBrowserConnect) ||
		errors.Is(err, mdmath.ErrPageCreate) ||
		errors.Is(err, mdmath.ErrPageLoad) ||
		errors.Is(err, mdmath.ErrContainerUpdate) {
		return ExitBrowser
	}

	// Render errors (exit 5)
	var renderErr *mdmath.RenderError
	if errors.As(err, &renderErr) {
		return ExitRender
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadTemplate) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	var configErr *mdmath.ConfigurationError
	if errors.As(err, &configErr) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, mdmath.ErrInvalidDisplayValue) ||
		errors.Is(err, mdmath.ErrInvalidSelector) ||
		errors.Is(err, mdmath.ErrContainerNotFound) ||
		errors.Is(err, mdmath.ErrHostPageParse) ||
		errors.Is(err, mdmath.ErrInvalidHighlight) ||
		errors.Is(err, mdmath.ErrStyleNotFound) ||
		errors.Is(err, mdmath.ErrTemplateNotFound) ||
		errors.Is(err, mdmath.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrStdinWithArgs) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}
