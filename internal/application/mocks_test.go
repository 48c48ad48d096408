package application

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/echochamber/internal/domain/model"
	"github.com/ericfisherdev/echochamber/internal/domain/port/driven"
)

// --- Mock implementations for service tests ---

type mockSuggestionStore struct {
	mu         sync.Mutex
	created    []model.Suggestion
	createErrs []error // consumed one per Create call before succeeding
	calls      int
	listed     []model.Suggestion
	deleteErr  error
	deletedID  int64
	deletedBy  string
}

func (m *mockSuggestionStore) Create(_ context.Context, s model.Suggestion) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	m.created = append(m.created, s)
	return int64(len(m.created)), nil
}

func (m *mockSuggestionStore) ListAll(_ context.Context) ([]model.Suggestion, error) {
	return m.listed, nil
}

func (m *mockSuggestionStore) ListByUsername(_ context.Context, username string) ([]model.Suggestion, error) {
	var out []model.Suggestion
	for _, s := range m.listed {
		if s.Username == username {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSuggestionStore) Delete(_ context.Context, id int64) error {
	m.deletedID = id
	return m.deleteErr
}

func (m *mockSuggestionStore) DeleteOwned(_ context.Context, id int64, username string) error {
	m.deletedID = id
	m.deletedBy = username
	return m.deleteErr
}

type mockAccountStore struct {
	accounts map[string]model.Account
	err      error
}

func newMockAccountStore(usernames ...string) *mockAccountStore {
	m := &mockAccountStore{accounts: map[string]model.Account{}}
	for _, u := range usernames {
		m.accounts[u] = model.Account{Username: u}
	}
	return m
}

func (m *mockAccountStore) CreateIfAbsent(_ context.Context, a model.Account) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.accounts[a.Username]; ok {
		return false, nil
	}
	m.accounts[a.Username] = a
	return true, nil
}

func (m *mockAccountStore) GetByUsername(_ context.Context, username string) (*model.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.accounts[username]
	if !ok {
		return nil, driven.ErrAccountNotFound
	}
	return &a, nil
}

func (m *mockAccountStore) Exists(_ context.Context, username string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.accounts[username]
	return ok, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
