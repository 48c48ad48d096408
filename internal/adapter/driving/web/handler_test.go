package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ericfisherdev/echochamber/internal/application"
	"github.com/ericfisherdev/echochamber/internal/domain/model"
	"github.com/ericfisherdev/echochamber/internal/domain/port/driven"
)

// fakeStore implements both storage ports in memory.
type fakeStore struct {
	mu          sync.Mutex
	accounts    map[string]model.Account
	suggestions []model.Suggestion
}

func (f *fakeStore) CreateIfAbsent(_ context.Context, a model.Account) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[a.Username]; ok {
		return false, nil
	}
	f.accounts[a.Username] = a
	return true, nil
}

func (f *fakeStore) GetByUsername(_ context.Context, username string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[username]
	if !ok {
		return nil, driven.ErrAccountNotFound
	}
	return &a, nil
}

func (f *fakeStore) Exists(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.accounts[username]
	return ok, nil
}

func (f *fakeStore) Create(_ context.Context, s model.Suggestion) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = int64(len(f.suggestions) + 1)
	f.suggestions = append([]model.Suggestion{s}, f.suggestions...)
	return s.ID, nil
}

func (f *fakeStore) ListAll(_ context.Context) ([]model.Suggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Suggestion{}, f.suggestions...), nil
}

func (f *fakeStore) ListByUsername(_ context.Context, username string) ([]model.Suggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Suggestion{}
	for _, s := range f.suggestions {
		if s.Username == username {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) Delete(context.Context, int64) error { return driven.ErrSuggestionNotFound }

func (f *fakeStore) DeleteOwned(context.Context, int64, string) error {
	return driven.ErrSuggestionNotFound
}

func setupWeb(t *testing.T) *http.ServeMux {
	t.Helper()

	store := &fakeStore{accounts: map[string]model.Account{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auth := application.NewAuthService(store, application.WithBcryptCost(bcrypt.MinCost))
	svc := application.NewSuggestionService(store, store, application.DefaultRetryPolicy(), nil, logger)

	ctx := context.Background()
	for user, pass := range map[string]string{"owner": "admin-pass", "alice": "alice-pass"} {
		_, err := auth.EnsureAccount(ctx, user, pass)
		require.NoError(t, err)
	}
	_, err := svc.Submit(ctx, "alice", "Paint the **fence**")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "owner", "Fix the lockers <script>alert(1)</script>")
	require.NoError(t, err)

	mux := http.NewServeMux()
	RegisterRoutes(mux, NewHandler(svc, auth, "owner", logger))
	return mux
}

func postDashboard(mux http.Handler, username, password string) *httptest.ResponseRecorder {
	form := url.Values{
		"username":    {username},
		"password":    {password},
		csrfFormField: {"tok"},
	}
	req := httptest.NewRequest(http.MethodPost, "/admin", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "tok"})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestIndex_ServedForRootAndUsername(t *testing.T) {
	mux := setupWeb(t)

	for _, path := range []string{"/", "/alice"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "<form", path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html", path)
	}
}

func TestStaticAssets(t *testing.T) {
	mux := setupWeb(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/script.js", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/suggest")
}

func TestSignIn_SetsCSRFCookie(t *testing.T) {
	mux := setupWeb(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, csrfCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Contains(t, rec.Body.String(), `value="`+cookies[0].Value+`"`)
}

func TestDashboard_AdminSeesAllSanitized(t *testing.T) {
	mux := setupWeb(t)

	rec := postDashboard(mux, "owner", "admin-pass")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Showing every box.")
	assert.Contains(t, body, "<strong>fence</strong>")
	assert.Contains(t, body, "Fix the lockers")
	assert.NotContains(t, body, "<script>")
	assert.Less(t, strings.Index(body, "Fix the lockers"), strings.Index(body, "fence"), "newest first")
}

func TestDashboard_OwnerSeesOwnOnly(t *testing.T) {
	mux := setupWeb(t)

	rec := postDashboard(mux, "alice", "alice-pass")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "fence")
	assert.NotContains(t, body, "Fix the lockers")
	assert.NotContains(t, body, "Showing every box.")
}

func TestDashboard_WrongPassword(t *testing.T) {
	mux := setupWeb(t)

	rec := postDashboard(mux, "alice", "nope")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password.")
	assert.NotContains(t, rec.Body.String(), "fence")
}

func TestDashboard_FailedSignInEscapesUsername(t *testing.T) {
	mux := setupWeb(t)

	rec := postDashboard(mux, "<img src=x>", "nope")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="&lt;img src=x&gt;"`)
	assert.NotContains(t, rec.Body.String(), "<img src=x>")
}

func TestDashboard_MissingCSRF(t *testing.T) {
	mux := setupWeb(t)

	form := url.Values{"username": {"owner"}, "password": {"admin-pass"}}
	req := httptest.NewRequest(http.MethodPost, "/admin", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestFormatAge(t *testing.T) {
	assert.Equal(t, "just now", formatAge(10*time.Second))
	assert.Equal(t, "5m ago", formatAge(5*time.Minute))
	assert.Equal(t, "3h ago", formatAge(3*time.Hour))
	assert.Equal(t, "2d ago", formatAge(49*time.Hour))
}
