package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/echochamber/internal/domain/model"
)

// Sentinel errors returned by SuggestionStore implementations.
var (
	// ErrSuggestionNotFound indicates no suggestion matched the requested id.
	ErrSuggestionNotFound = errors.New("suggestion not found")

	// ErrStoreBusy indicates the store rejected a write because another writer
	// currently holds the database lock. Callers may retry.
	ErrStoreBusy = errors.New("store busy")
)

// SuggestionStore defines the driven port for suggestion persistence.
// Create returns ErrStoreBusy on transient lock contention.
// Delete and DeleteOwned return ErrSuggestionNotFound when no row was removed.
type SuggestionStore interface {
	Create(ctx context.Context, s model.Suggestion) (int64, error)

	// ListAll returns every suggestion, newest first.
	ListAll(ctx context.Context) ([]model.Suggestion, error)

	// ListByUsername returns the suggestions owned by username, newest first.
	ListByUsername(ctx context.Context, username string) ([]model.Suggestion, error)

	Delete(ctx context.Context, id int64) error

	// DeleteOwned removes the suggestion only if it belongs to username.
	DeleteOwned(ctx context.Context, id int64, username string) error
}
