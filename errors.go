package mdmath

import (
	"errors"
	"fmt"

	"github.com/alnah/go-mdmath/internal/mathtex"
	"github.com/alnah/go-mdmath/internal/pipeline"
)

// Sentinel errors for delimiter validation.
var (
	ErrNoDelimiters        = errors.New("at least one delimiter is required")
	ErrEmptyMarker         = errors.New("delimiter marker cannot be empty")
	ErrInvalidMarker       = errors.New("delimiter marker contains whitespace or HTML special characters")
	ErrDuplicateDelimiter  = errors.New("duplicate delimiter")
	ErrAmbiguousDelimiter  = errors.New("delimiter is shadowed by a shorter prefix ordered before it")
	ErrInvalidHighlight    = pipeline.ErrInvalidHighlight
	ErrNilCollaborator     = errors.New("collaborator cannot be nil")
	ErrUnknownEngine       = mathtex.ErrUnknownEngine
	ErrUnknownPackage      = mathtex.ErrUnknownPackage
	ErrInvalidDisplayValue = errors.New("invalid display value")
)

// Sentinel errors for rendering.
var (
	ErrHTMLConversion   = pipeline.ErrHTMLConversion
	ErrMathTypeset      = pipeline.ErrMathTypeset
	ErrUnterminatedMath = pipeline.ErrUnterminatedMath
	ErrStagePanic       = errors.New("stage panicked")
)

// Sentinel errors for output containers.
var (
	ErrContainerNotFound = errors.New("container not found")
	ErrInvalidSelector   = errors.New("invalid container selector")
	ErrHostPageParse     = errors.New("failed to parse host page")
	ErrBrowserConnect    = errors.New("failed to connect to browser")
	ErrPageCreate        = errors.New("failed to create browser page")
	ErrPageLoad          = errors.New("failed to load page")
	ErrContainerUpdate   = errors.New("failed to update container")
)

// Sentinel errors for host page assets.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// ConfigurationError reports an invalid renderer configuration.
// A renderer is never constructed from a configuration that fails validation.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Stage names a step of the render pipeline.
type Stage string

// Render stages, in execution order.
const (
	StageMarkdown Stage = "markdown"
	StageSanitize Stage = "sanitize"
	StageMath     Stage = "math"
)

// RenderError reports a failure of one pipeline stage during Render.
type RenderError struct {
	Stage Stage
	Cause error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed at %s stage: %v", e.Stage, e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
