package ports

import (
	"context"

	"github.com/ngcore/storefront-api/internal/core/domain"
)

// AuthRepository defines the persistence operations of the identity store.
type AuthRepository interface {
	// FindByUsername looks a user up by normalized username, roles included.
	// Returns domain.ErrUserNotFound when absent.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByEmail looks a user up by normalized email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create persists the user together with its role memberships in a single
	// write. Unique-index collisions map to domain.ErrDuplicateUsername or
	// domain.ErrDuplicateEmail.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// RoleRepository manages the fixed role set.
type RoleRepository interface {
	// EnsureRoles creates any of roles that do not exist yet.
	EnsureRoles(ctx context.Context, roles []domain.Role) error
}
