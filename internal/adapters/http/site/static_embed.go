package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// FS returns an http.FileSystem for the embedded landing page.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Unreachable with the embedded layout; fall back to the full tree.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
