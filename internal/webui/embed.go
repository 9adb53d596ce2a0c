// Package webui serves the embedded map viewer page.
package webui

import (
	"embed"
	"io/fs"
)

//go:embed all:static
var embeddedFS embed.FS

// staticFS wraps the embedded filesystem.
var staticFS fs.FS = embeddedFS
