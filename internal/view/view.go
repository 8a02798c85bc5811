// Package view embeds the HTML templates and static assets served by the gateway.
package view

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page and mail template.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templatesFS, "templates/*.html")
}

// Static returns the static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
