package ports

import (
	"context"

	"github.com/shopcraft/shop-api/internal/core/domain"
)

// AuthRepository defines the interface for user identity persistence.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// AddRole grants a role to the user with the given email. Adding a role the
	// user already holds is a no-op.
	AddRole(ctx context.Context, email, role string) error
}
