package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ngcore/storefront-api/internal/core/domain"
	"github.com/ngcore/storefront-api/internal/core/ports"
)

// AdminAccount describes the optional bootstrap administrator.
type AdminAccount struct {
	Username string
	Email    string
	Password string
}

// Seeder prepares the identity store at startup.
type Seeder struct {
	roles  ports.RoleRepository
	users  ports.AuthRepository
	logger zerolog.Logger
}

func NewSeeder(roles ports.RoleRepository, users ports.AuthRepository, logger zerolog.Logger) *Seeder {
	return &Seeder{roles: roles, users: users, logger: logger}
}

// EnsureRoles creates the fixed role set. Safe to run on every start.
func (s *Seeder) EnsureRoles(ctx context.Context) error {
	if err := s.roles.EnsureRoles(ctx, domain.SeedRoles); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	return nil
}

// EnsureAdmin creates acct with the Admin role unless a user with that
// username already exists. An empty username disables the bootstrap.
func (s *Seeder) EnsureAdmin(ctx context.Context, acct AdminAccount) error {
	if acct.Username == "" {
		return nil
	}

	existing, err := s.users.FindByUsername(ctx, acct.Username)
	if err == nil {
		if !existing.HasRole(domain.RoleAdmin) {
			s.logger.Warn().Str("username", existing.Username).Msg("bootstrap admin exists without Admin role")
		}
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("seed admin: %w", err)
	}

	if msgs := domain.DefaultPasswordPolicy.Check(acct.Password); len(msgs) > 0 {
		return fmt.Errorf("seed admin: %w", &domain.ValidationError{Errors: msgs})
	}

	user, err := newUser(acct.Username, acct.Email, acct.Password, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	s.logger.Info().Str("username", acct.Username).Msg("bootstrap admin created")
	return nil
}
