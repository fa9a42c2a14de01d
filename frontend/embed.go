//go:build !noembed

// Package frontend embeds the browser client served at / and /ui.
package frontend

import (
	"embed"
	"io/fs"
)

//go:embed all:dist
var distDir embed.FS

// DistFS is the embedded client with the "dist" prefix stripped.
var DistFS fs.FS

func init() {
	DistFS, _ = fs.Sub(distDir, "dist")
}
