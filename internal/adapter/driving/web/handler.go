// Package web implements the HTML driving adapter: the public submission page
// and the admin dashboard rendered with templ components.
package web

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/echochamber/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/echochamber/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/echochamber/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/echochamber/internal/application"
	"github.com/ericfisherdev/echochamber/internal/domain/model"
)

// Handler is the web GUI driving adapter.
type Handler struct {
	suggestionSvc *application.SuggestionService
	authSvc       *application.AuthService
	adminUsername string
	static        fs.FS
	now           func() time.Time
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. The admin
// account sees every box on the dashboard; other accounts see their own.
func NewHandler(
	suggestionSvc *application.SuggestionService,
	authSvc *application.AuthService,
	adminUsername string,
	logger *slog.Logger,
) *Handler {
	staticFS, err := fs.Sub(StaticFS, "static")
	if err != nil {
		panic("web: static assets missing: " + err.Error())
	}

	return &Handler{
		suggestionSvc: suggestionSvc,
		authSvc:       authSvc,
		adminUsername: adminUsername,
		static:        staticFS,
		now:           time.Now,
		logger:        logger,
	}
}

// Index serves the submission page. The same page is served for "/" and for
// "/{username}"; the script picks the endpoint from the path.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, h.static, "index.html")
}

// SignIn renders the admin sign-in form and issues a CSRF cookie.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	token := csrfToken(w, r)
	h.render(w, r, http.StatusOK, "Sign in", pages.SignIn(vm.SignInViewModel{CSRFToken: token}))
}

// Dashboard verifies the posted credentials and renders the account's
// suggestions, newest first.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	err := h.authSvc.Authenticate(r.Context(), username, password)
	if errors.Is(err, application.ErrInvalidCredentials) {
		form := pages.SignIn(vm.SignInViewModel{
			CSRFToken: csrfToken(w, r),
			Username:  username,
			Error:     "Invalid username or password.",
		})
		h.render(w, r, http.StatusForbidden, "Sign in", form)
		return
	}
	if err != nil {
		h.logger.Error("failed to verify dashboard credentials", "username", username, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	showsAll := username == h.adminUsername
	var suggestions []model.Suggestion
	if showsAll {
		suggestions, err = h.suggestionSvc.ListAll(r.Context())
	} else {
		suggestions, err = h.suggestionSvc.ListFor(r.Context(), username)
	}
	if err != nil {
		h.logger.Error("failed to list suggestions for dashboard", "username", username, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	page := pages.Dashboard(toDashboardViewModel(username, showsAll, suggestions, h.now()))
	h.render(w, r, http.StatusOK, "Suggestions", page)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := templates.Layout(title, body).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "title", title, "error", err)
	}
}
