package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ngcore/storefront-api/internal/core/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and its role memberships in one transaction.
// Every role name on the user must already exist.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := userModel{
		Username:           user.Username,
		NormalizedUsername: user.NormalizedUsername,
		Email:              user.Email,
		NormalizedEmail:    user.NormalizedEmail,
		PasswordHash:       user.PasswordHash,
		SecurityStamp:      user.SecurityStamp,
		CreatedAt:          user.CreatedAt,
		UpdatedAt:          user.UpdatedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(user.Roles) > 0 {
			names := make([]string, len(user.Roles))
			for i, name := range user.Roles {
				names[i] = domain.Normalize(name)
			}
			if err := tx.Where("normalized_name IN ?", names).Find(&m.Roles).Error; err != nil {
				return fmt.Errorf("load roles: %w", err)
			}
			if len(m.Roles) != len(names) {
				return fmt.Errorf("unknown role in %v", user.Roles)
			}
		}
		if err := tx.Omit("Roles.*").Create(&m).Error; err != nil {
			return uniqueViolation(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "normalized_username = ?", domain.Normalize(username))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "normalized_email = ?", domain.Normalize(email))
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m userModel
	err := r.db.WithContext(ctx).Preload("Roles").Where(query, arg).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return m.toDomain(), nil
}

// uniqueViolation maps a unique index failure on users to the matching
// domain error. Postgres names the index, SQLite names the column; both
// contain the column name.
func uniqueViolation(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") && !strings.Contains(msg, "duplicate key value") {
		return fmt.Errorf("insert user: %w", err)
	}
	switch {
	case strings.Contains(msg, "normalized_email"):
		return domain.ErrDuplicateEmail
	case strings.Contains(msg, "normalized_username"):
		return domain.ErrDuplicateUsername
	}
	return fmt.Errorf("insert user: %w", err)
}

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// EnsureRoles inserts the roles that are missing and leaves the rest alone.
func (r *RoleRepository) EnsureRoles(ctx context.Context, roles []domain.Role) error {
	if len(roles) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	models := make([]roleModel, len(roles))
	for i, role := range roles {
		models[i] = roleModel{ID: role.ID, Name: role.Name, NormalizedName: role.NormalizedName}
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&models).Error; err != nil {
		return fmt.Errorf("ensure roles: %w", err)
	}
	return nil
}
