// Package web bundles the HTML templates and static assets into the binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var assets embed.FS

// GetTemplatesFS returns the page templates rooted at templates/
func GetTemplatesFS() fs.FS {
	return mustSub("templates")
}

// GetStaticFS returns the css and js served under /static/
func GetStaticFS() fs.FS {
	return mustSub("static")
}

// mustSub panics on a bad directory name, which would be a build mistake
func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(assets, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
