package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/echochamber/internal/domain/model"
	"github.com/ericfisherdev/echochamber/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SuggestionStore = (*SuggestionRepo)(nil)

// SuggestionRepo is the SQLite implementation of the SuggestionStore port interface.
type SuggestionRepo struct {
	db *DB
}

// NewSuggestionRepo creates a new SuggestionRepo backed by the given DB.
func NewSuggestionRepo(db *DB) *SuggestionRepo {
	return &SuggestionRepo{db: db}
}

// Create inserts a suggestion and returns its assigned id. A zero CreatedAt is
// replaced with the current time. Lock contention is reported as
// driven.ErrStoreBusy and an unknown owner as driven.ErrAccountNotFound.
func (r *SuggestionRepo) Create(ctx context.Context, s model.Suggestion) (int64, error) {
	const query = `INSERT INTO suggestions (username, message, created_at) VALUES (?, ?, ?)`

	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := r.db.Writer.ExecContext(ctx, query, s.Username, s.Message, formatTime(createdAt))
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("create suggestion for %s: %w", s.Username, driven.ErrAccountNotFound)
		}
		return 0, classifyWrite("create suggestion for "+s.Username, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read suggestion id: %w", err)
	}

	return id, nil
}

// ListAll returns every suggestion ordered newest first.
func (r *SuggestionRepo) ListAll(ctx context.Context) ([]model.Suggestion, error) {
	const query = `SELECT id, username, message, created_at FROM suggestions ORDER BY created_at DESC, id DESC`

	return r.list(ctx, "list suggestions", query)
}

// ListByUsername returns the suggestions owned by username ordered newest first.
func (r *SuggestionRepo) ListByUsername(ctx context.Context, username string) ([]model.Suggestion, error) {
	const query = `SELECT id, username, message, created_at FROM suggestions WHERE username = ? ORDER BY created_at DESC, id DESC`

	return r.list(ctx, "list suggestions for "+username, query, username)
}

// Delete removes the suggestion with the given id.
func (r *SuggestionRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM suggestions WHERE id = ?`

	return r.delete(ctx, id, query, id)
}

// DeleteOwned removes the suggestion with the given id only when it belongs to
// username. A suggestion owned by someone else is reported as not found.
func (r *SuggestionRepo) DeleteOwned(ctx context.Context, id int64, username string) error {
	const query = `DELETE FROM suggestions WHERE id = ? AND username = ?`

	return r.delete(ctx, id, query, id, username)
}

func (r *SuggestionRepo) delete(ctx context.Context, id int64, query string, args ...any) error {
	result, err := r.db.Writer.ExecContext(ctx, query, args...)
	if err != nil {
		return classifyWrite(fmt.Sprintf("delete suggestion %d", id), err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete suggestion %d: %w", id, driven.ErrSuggestionNotFound)
	}

	return nil
}

func (r *SuggestionRepo) list(ctx context.Context, op, query string, args ...any) ([]model.Suggestion, error) {
	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	suggestions := []model.Suggestion{}
	for rows.Next() {
		var s model.Suggestion
		var createdAt string
		if err := rows.Scan(&s.ID, &s.Username, &s.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}

		s.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for suggestion %d: %w", s.ID, err)
		}

		suggestions = append(suggestions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}

	return suggestions, nil
}
