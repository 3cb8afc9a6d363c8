// Package assets provides the host page template and stylesheets used when
// rendered fragments are presented as complete pages.
// Assets can be loaded from embedded files or custom filesystem paths.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in page and style)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the CLI. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader if the asset is not
// found, so a user can override the host page while keeping the stylesheet.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css    # stylesheet injected into the host page
//	└── templates/
//	    └── {name}.html   # host page holding the output container
//
// The built-in page holds a hidden "#content" element that becomes visible
// once a fragment is presented into it.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
