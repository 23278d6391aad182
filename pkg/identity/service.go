package identity

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for every login failure. Unknown email
// and wrong password produce the same error so callers cannot enumerate
// accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Account is the single operator account, injected from configuration at
// construction rather than read from a process-global.
type Account struct {
	Email    string
	Password string
}

// Service authenticates the configured operator. It holds no mutable state
// and is safe for concurrent use.
type Service struct {
	email        string
	passwordHash []byte
}

func NewService(account Account) (*Service, error) {
	if account.Email == "" || account.Password == "" {
		return nil, errors.New("operator account email and password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Service{
		email:        strings.TrimSpace(account.Email),
		passwordHash: hash,
	}, nil
}

// Authenticate checks the pair against the configured account and returns
// the subject email on success.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) != s.email {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.email, nil
}
