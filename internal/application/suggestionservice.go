package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ericfisherdev/echochamber/internal/domain/model"
	"github.com/ericfisherdev/echochamber/internal/domain/port/driven"
)

var (
	// ErrEmptyMessage is returned when a submitted message is empty after trimming.
	ErrEmptyMessage = errors.New("message is required")

	// ErrStoreUnavailable is returned when a write stayed blocked on the
	// database lock for the whole retry budget.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// RetryObserver is notified before each retry of a busy write.
type RetryObserver func(err error, wait time.Duration)

// SuggestionService implements submission, listing and deletion of
// suggestions on top of the storage ports.
type SuggestionService struct {
	suggestions driven.SuggestionStore
	accounts    driven.AccountStore
	policy      RetryPolicy
	onRetry     RetryObserver
	now         func() time.Time
	logger      *slog.Logger
}

// NewSuggestionService creates a SuggestionService. onRetry may be nil.
func NewSuggestionService(
	suggestions driven.SuggestionStore,
	accounts driven.AccountStore,
	policy RetryPolicy,
	onRetry RetryObserver,
	logger *slog.Logger,
) *SuggestionService {
	return &SuggestionService{
		suggestions: suggestions,
		accounts:    accounts,
		policy:      policy,
		onRetry:     onRetry,
		now:         time.Now,
		logger:      logger,
	}
}

// Submit stores a trimmed message in username's box and returns its id.
//
// Errors: ErrEmptyMessage for blank input, driven.ErrAccountNotFound for an
// unknown username, ErrStoreUnavailable when lock contention outlasts the
// retry policy. Other store errors are returned without retrying.
func (s *SuggestionService) Submit(ctx context.Context, username, message string) (int64, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return 0, ErrEmptyMessage
	}

	exists, err := s.accounts.Exists(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("submit suggestion: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("submit suggestion for %s: %w", username, driven.ErrAccountNotFound)
	}

	suggestion := model.Suggestion{
		Username:  username,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}

	return s.createWithRetry(ctx, suggestion)
}

func (s *SuggestionService) createWithRetry(ctx context.Context, suggestion model.Suggestion) (int64, error) {
	if s.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.policy.Timeout)
		defer cancel()
	}

	attempts := 0
	op := func() (int64, error) {
		attempts++
		id, err := s.suggestions.Create(ctx, suggestion)
		if err == nil {
			return id, nil
		}
		if errors.Is(err, driven.ErrStoreBusy) {
			return 0, err
		}
		return 0, backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		s.logger.Warn("database busy, retrying insert",
			"username", suggestion.Username,
			"attempt", attempts,
			"wait", wait,
		)
		if s.onRetry != nil {
			s.onRetry(err, wait)
		}
	}

	id, err := backoff.RetryNotifyWithData(op, s.policy.newBackOff(ctx), notify)
	if err == nil {
		return id, nil
	}

	if errors.Is(err, driven.ErrStoreBusy) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Error("giving up on busy database",
			"username", suggestion.Username,
			"attempts", attempts,
			"error", err,
		)
		return 0, fmt.Errorf("create suggestion after %d attempts: %w: %w", attempts, ErrStoreUnavailable, err)
	}

	return 0, fmt.Errorf("create suggestion: %w", err)
}

// ListAll returns every stored suggestion, newest first.
func (s *SuggestionService) ListAll(ctx context.Context) ([]model.Suggestion, error) {
	return s.suggestions.ListAll(ctx)
}

// ListFor returns the suggestions in username's box, newest first.
func (s *SuggestionService) ListFor(ctx context.Context, username string) ([]model.Suggestion, error) {
	return s.suggestions.ListByUsername(ctx, username)
}

// Delete removes any suggestion by id.
func (s *SuggestionService) Delete(ctx context.Context, id int64) error {
	return s.suggestions.Delete(ctx, id)
}

// DeleteOwned removes a suggestion by id only if username owns it.
func (s *SuggestionService) DeleteOwned(ctx context.Context, id int64, username string) error {
	return s.suggestions.DeleteOwned(ctx, id, username)
}
