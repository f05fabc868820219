package auth

import (
	"context"
	"errors"

	"techsheet-backend/internal/domain"
	"techsheet-backend/internal/users"
)

var ErrNotAuthenticated = errors.New("Not authenticated")

// CredentialVerifier abstracts credential checks (production users.Service or
// test doubles). Implementations return users.ErrInvalidCredentials or
// users.ErrNotApproved on failure.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error)
}

// Registrar abstracts account creation for the register endpoint.
type Registrar interface {
	CreateUser(ctx context.Context, in users.CreateUserInput) (*domain.User, error)
}

// VerifySessionUser validates the raw session principal and returns the
// shape for /me.
func VerifySessionUser(sessionUser interface{}) (map[string]interface{}, error) {
	if sessionUser == nil {
		return nil, ErrNotAuthenticated
	}
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return nil, ErrNotAuthenticated
	}
	if id, _ := m["user_id"].(float64); id == 0 {
		return nil, ErrNotAuthenticated
	}
	return m, nil
}
