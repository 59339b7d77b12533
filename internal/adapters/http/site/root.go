// Package site serves the embedded ops landing page at the root path.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded landing page to the mux root. More
// specific routes registered on the same mux keep precedence.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("/", http.FileServer(FS()))
}
