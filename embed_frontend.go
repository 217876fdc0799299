package main

import (
	"embed"
	"io/fs"
)

// embeddedFrontend contains the templates, scripts and styles of the generated site.
//
//go:embed frontend
var embeddedFrontend embed.FS

// frontendFS returns the embedded frontend rooted at its templates/, js/ and css/ directories.
func frontendFS() fs.FS {
	sub, err := fs.Sub(embeddedFrontend, "frontend")
	if err != nil {
		panic(err)
	}
	return sub
}
