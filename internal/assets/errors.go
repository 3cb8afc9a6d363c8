package assets

import "errors"

// Sentinel errors for asset loading.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath reports a custom asset directory that cannot be used.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead wraps I/O failures other than a missing file.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal reports a resolved asset path outside the base directory,
	// typically through a symlink.
	ErrPathTraversal = errors.New("path traversal detected")
)
