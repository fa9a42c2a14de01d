//go:build noembed

// Package frontend embeds the browser client served at / and /ui.
// Building with -tags noembed swaps in a placeholder page so the server
// compiles without the dist directory.
package frontend

import (
	"io/fs"
	"testing/fstest"
)

// DistFS holds a placeholder index.html.
var DistFS fs.FS = fstest.MapFS{
	"index.html": &fstest.MapFile{Data: []byte("<!-- noembed placeholder -->")},
}
