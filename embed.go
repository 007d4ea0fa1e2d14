package bikeshare

import "embed"

// ContentFS holds the markdown pages shipped with the binary.
// Files under CONTENT_PATH on disk take precedence.
//
//go:embed content
var ContentFS embed.FS
