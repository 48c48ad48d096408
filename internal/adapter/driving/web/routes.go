package web

import (
	"net/http"
)

// RegisterRoutes registers the HTML routes on the provided mux. The
// single-segment GET route shares its path space with the JSON API's
// POST /{username}.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(h.static)))

	// Submission page.
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /{username}", h.Index)

	// Admin dashboard.
	mux.HandleFunc("GET /admin", h.SignIn)
	mux.HandleFunc("POST /admin", h.Dashboard)
}
