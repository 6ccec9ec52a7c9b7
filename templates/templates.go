// Package templates holds the portal's HTML views.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Parse returns the login and dashboard views, named by file name
func Parse() (*template.Template, error) {
	return template.ParseFS(files, "*.html")
}
