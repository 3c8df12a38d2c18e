package ports

import (
	"context"

	"github.com/shopcraft/shop-api/internal/core/domain"
)

type AuthService interface {
	// Register creates a new identity with the "User" role.
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	// Login verifies credentials and returns a signed bearer token.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// AssignRole grants an additional role to an existing user.
	AssignRole(ctx context.Context, email, role string) error
}

// TokenVerifier validates a presented bearer token and reconstructs the
// principal it encodes. Verification is pure and safe for concurrent use.
type TokenVerifier interface {
	Verify(token string) (*domain.Principal, error)
}
