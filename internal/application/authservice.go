package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ericfisherdev/echochamber/internal/domain/model"
	"github.com/ericfisherdev/echochamber/internal/domain/port/driven"
)

// ErrInvalidCredentials is returned when a username/password pair does not
// match a stored account. Unknown usernames produce the same error.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrReservedUsername is returned when an account name matches a fixed route
// segment and would be unreachable through the per-account routes.
var ErrReservedUsername = errors.New("username is reserved")

var reservedUsernames = map[string]struct{}{
	"admin":      {},
	"api":        {},
	"metrics":    {},
	"static":     {},
	"suggestion": {},
}

// IsReservedUsername reports whether username collides with a fixed route segment.
func IsReservedUsername(username string) bool {
	_, ok := reservedUsernames[strings.ToLower(username)]
	return ok
}

// dummyHash is compared against when the account does not exist so that
// unknown and known usernames take the same time to reject.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("echochamber-dummy-password"), bcrypt.DefaultCost)

// AuthService verifies account credentials and seeds the admin account.
type AuthService struct {
	accounts driven.AccountStore
	cost     int
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithBcryptCost overrides the bcrypt work factor used when hashing passwords.
// Values outside bcrypt's accepted range fall back to bcrypt.DefaultCost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

// NewAuthService creates an AuthService. Passwords are hashed with
// bcrypt.DefaultCost unless WithBcryptCost is given.
func NewAuthService(accounts driven.AccountStore, opts ...AuthOption) *AuthService {
	s := &AuthService{accounts: accounts, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate returns nil when password matches the stored hash for username.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrInvalidCredentials
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if errors.Is(err, driven.ErrAccountNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("authenticate %s: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return nil
}

// EnsureAccount creates the account with a bcrypt hash of password unless it
// already exists. An existing account keeps its current password. Returns true
// when the account was created.
func (s *AuthService) EnsureAccount(ctx context.Context, username, password string) (bool, error) {
	if username == "" {
		return false, errors.New("ensure account: username is required")
	}
	if IsReservedUsername(username) {
		return false, fmt.Errorf("ensure account %s: %w", username, ErrReservedUsername)
	}
	if password == "" {
		return false, errors.New("ensure account: password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return false, fmt.Errorf("hash password for %s: %w", username, err)
	}

	created, err := s.accounts.CreateIfAbsent(ctx, model.Account{
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		return false, fmt.Errorf("ensure account %s: %w", username, err)
	}

	return created, nil
}

// GeneratePassword returns a random URL-safe password with 144 bits of entropy.
func GeneratePassword() (string, error) {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
