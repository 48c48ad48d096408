package httphandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/echochamber/internal/application"
	"github.com/ericfisherdev/echochamber/internal/domain/port/driven"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// adminPassHeader carries the admin password on single-tenant admin routes.
const adminPassHeader = "X-Admin-Pass"

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	suggestionSvc *application.SuggestionService
	authSvc       *application.AuthService
	healthSvc     *application.HealthService
	metrics       *Metrics
	adminUsername string
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. adminUsername
// names the account behind the single-tenant /api routes. healthSvc and
// metrics may be nil.
func NewHandler(
	suggestionSvc *application.SuggestionService,
	authSvc *application.AuthService,
	healthSvc *application.HealthService,
	metrics *Metrics,
	adminUsername string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		suggestionSvc: suggestionSvc,
		authSvc:       authSvc,
		healthSvc:     healthSvc,
		metrics:       metrics,
		adminUsername: adminUsername,
		logger:        logger,
	}
}

// RegisterAPIRoutes registers the JSON API on mux, both the single-tenant
// /api routes and the per-account routes.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("POST /api/suggest", h.SubmitSuggestion)
	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("GET /api/suggestions", h.ListSuggestions)
	mux.HandleFunc("DELETE /api/suggestions/{id}", h.DeleteSuggestion)
	mux.HandleFunc("GET /api/health", h.Health)

	mux.HandleFunc("POST /{username}", h.SubmitUserSuggestion)
	mux.HandleFunc("GET /admin/{username}", h.ListUserSuggestions)
	mux.HandleFunc("DELETE /suggestion/{id}", h.DeleteUserSuggestion)

	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics.Handler())
	}
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with the standard middleware stack.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger, h.metrics, nil)
}

// SubmitSuggestion stores an anonymous suggestion in the admin account's box.
func (h *Handler) SubmitSuggestion(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, h.adminUsername)
}

// SubmitUserSuggestion stores an anonymous suggestion in the box named by the
// {username} path segment.
func (h *Handler) SubmitUserSuggestion(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, r.PathValue("username"))
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, username string) {
	var req SubmitRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.suggestionSvc.Submit(r.Context(), username, req.Message)
	switch {
	case err == nil:
	case errors.Is(err, application.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	case errors.Is(err, driven.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, application.ErrStoreUnavailable):
		h.logger.Error("suggestion store unavailable", "username", username, "error", err)
		writeError(w, http.StatusServiceUnavailable, "Store unavailable, try again later")
		return
	default:
		h.logger.Error("failed to save suggestion", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "Save failed")
		return
	}

	h.metrics.suggestionSubmitted()
	writeJSON(w, http.StatusOK, SubmitResponse{ID: id})
}

// Login checks an email/password pair against the stored accounts. No session
// is created; clients resend the password on each protected request. A body
// that cannot be decoded is treated as a failed login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusUnauthorized, LoginResponse{Success: false, Error: "Invalid credentials"})
		return
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Username
	}

	if !h.authenticate(w, r, identifier, req.Password, http.StatusUnauthorized) {
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Success: true})
}

// ListSuggestions returns every suggestion, newest first. The admin password
// is read from the X-Admin-Pass header or the admin_pass query parameter.
func (h *Handler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	if !h.authenticate(w, r, h.adminUsername, adminPassword(r), http.StatusForbidden) {
		return
	}

	suggestions, err := h.suggestionSvc.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list suggestions", "error", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, toSuggestionResponses(suggestions))
}

// ListUserSuggestions returns the suggestions in {username}'s box, newest
// first, when the password query parameter matches that account.
func (h *Handler) ListUserSuggestions(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if !h.authenticate(w, r, username, r.URL.Query().Get("password"), http.StatusForbidden) {
		return
	}

	suggestions, err := h.suggestionSvc.ListFor(r.Context(), username)
	if err != nil {
		h.logger.Error("failed to list suggestions", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, toSuggestionResponses(suggestions))
}

// DeleteSuggestion removes any suggestion by id using the admin password from
// the JSON body, falling back to the X-Admin-Pass header.
func (h *Handler) DeleteSuggestion(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	password := req.Password
	if password == "" {
		password = adminPassword(r)
	}

	if !h.authenticate(w, r, h.adminUsername, password, http.StatusForbidden) {
		return
	}

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	h.writeDeleteResult(w, id, h.suggestionSvc.Delete(r.Context(), id))
}

// DeleteUserSuggestion removes a suggestion owned by the account named in the
// JSON body. Suggestions belonging to other accounts are reported as not found.
func (h *Handler) DeleteUserSuggestion(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.authenticate(w, r, req.Username, req.Password, http.StatusForbidden) {
		return
	}

	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	h.writeDeleteResult(w, id, h.suggestionSvc.DeleteOwned(r.Context(), id, req.Username))
}

func (h *Handler) writeDeleteResult(w http.ResponseWriter, id int64, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Deleted"})
	case errors.Is(err, driven.ErrSuggestionNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	default:
		h.logger.Error("failed to delete suggestion", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Delete failed")
	}
}

// Health reports whether the database is reachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.healthSvc == nil {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Time: time.Now().UTC().Format(time.RFC3339)})
		return
	}

	status := h.healthSvc.Check(r.Context())
	resp := HealthResponse{Status: "ok", Time: status.Checked.Format(time.RFC3339)}
	if !status.OK {
		h.logger.Error("health check failed", "error", status.Err)
		resp.Status = "unavailable"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// authenticate writes failStatus (or 500 on a store error) and returns false
// unless password matches username's account.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, username, password string, failStatus int) bool {
	err := h.authSvc.Authenticate(r.Context(), username, password)
	switch {
	case err == nil:
		return true
	case errors.Is(err, application.ErrInvalidCredentials):
		if failStatus == http.StatusUnauthorized {
			writeJSON(w, failStatus, LoginResponse{Success: false, Error: "Invalid credentials"})
		} else {
			writeError(w, failStatus, "Invalid password")
		}
		return false
	default:
		h.logger.Error("failed to verify credentials", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return false
	}
}

// adminPassword returns the admin password from the X-Admin-Pass header or
// the admin_pass query parameter.
func adminPassword(r *http.Request) string {
	if pass := r.Header.Get(adminPassHeader); pass != "" {
		return pass
	}
	return r.URL.Query().Get("admin_pass")
}

// decodeBody decodes a JSON body into v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// parseID parses a positive suggestion id from a path segment.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
