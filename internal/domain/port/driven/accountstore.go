package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/echochamber/internal/domain/model"
)

// ErrAccountNotFound indicates the requested account does not exist.
var ErrAccountNotFound = errors.New("account not found")

// AccountStore defines the driven port for credential persistence.
type AccountStore interface {
	// CreateIfAbsent inserts the account unless one with the same username
	// already exists. Returns true when a row was inserted.
	CreateIfAbsent(ctx context.Context, account model.Account) (bool, error)

	// GetByUsername returns ErrAccountNotFound if the account does not exist.
	GetByUsername(ctx context.Context, username string) (*model.Account, error)

	Exists(ctx context.Context, username string) (bool, error)
}
