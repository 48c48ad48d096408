package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/echochamber/internal/domain/model"
	"github.com/ericfisherdev/echochamber/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AccountStore = (*AccountRepo)(nil)

// AccountRepo is the SQLite implementation of the AccountStore port interface.
type AccountRepo struct {
	db *DB
}

// NewAccountRepo creates a new AccountRepo backed by the given DB.
func NewAccountRepo(db *DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// CreateIfAbsent inserts the account unless the username is already taken.
// An existing account is left untouched, including its password hash.
func (r *AccountRepo) CreateIfAbsent(ctx context.Context, account model.Account) (bool, error) {
	const query = `INSERT OR IGNORE INTO accounts (username, password_hash, created_at) VALUES (?, ?, ?)`

	createdAt := account.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := r.db.Writer.ExecContext(ctx, query, account.Username, account.PasswordHash, formatTime(createdAt))
	if err != nil {
		return false, classifyWrite("create account "+account.Username, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check rows affected: %w", err)
	}

	return rows == 1, nil
}

// GetByUsername returns the account or driven.ErrAccountNotFound.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	const query = `SELECT username, password_hash, created_at FROM accounts WHERE username = ?`

	var account model.Account
	var createdAt string
	err := r.db.Reader.QueryRowContext(ctx, query, username).Scan(&account.Username, &account.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account %s: %w", username, driven.ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", username, err)
	}

	account.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for account %s: %w", username, err)
	}

	return &account, nil
}

// Exists reports whether an account with the given username exists.
func (r *AccountRepo) Exists(ctx context.Context, username string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM accounts WHERE username = ?)`

	var exists bool
	if err := r.db.Reader.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("check account %s: %w", username, err)
	}

	return exists, nil
}
