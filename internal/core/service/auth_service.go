package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ngcore/storefront-api/internal/core/domain"
	"github.com/ngcore/storefront-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo     ports.AuthRepository
	tokens   ports.TokenIssuer
	policy   domain.PasswordPolicy
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, tokens ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		policy:   domain.DefaultPasswordPolicy,
		validate: validator.New(),
		logger:   logger,
	}
}

// Register validates the form, then creates the user with the Customer role.
// All rule violations are reported together in a *domain.ValidationError.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	verr := &domain.ValidationError{}
	usernameOK := domain.ValidUsername(username)
	if !usernameOK {
		verr.Add(fmt.Sprintf("Username '%s' is invalid, can only contain letters or digits.", username))
	}
	emailOK := s.validate.Var(email, "required,email") == nil
	if !emailOK {
		verr.Add(fmt.Sprintf("Email '%s' is invalid.", email))
	}

	if usernameOK {
		taken, err := s.usernameTaken(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("register: %w", err)
		}
		if taken {
			verr.Add(usernameTakenMsg(username))
		}
	}
	if emailOK {
		taken, err := s.emailTaken(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("register: %w", err)
		}
		if taken {
			verr.Add(emailTakenMsg(email))
		}
	}

	for _, msg := range s.policy.Check(in.Password) {
		verr.Add(msg)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	user, err := newUser(username, email, in.Password, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	switch {
	case errors.Is(err, domain.ErrDuplicateUsername):
		return nil, &domain.ValidationError{Errors: []string{usernameTakenMsg(username)}}
	case errors.Is(err, domain.ErrDuplicateEmail):
		return nil, &domain.ValidationError{Errors: []string{emailTakenMsg(email)}}
	case err != nil:
		s.logger.Error().Err(err).Str("username", username).Msg("failed to create user")
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Info().Str("username", created.Username).Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login checks the credentials and issues a token. An unknown username and a
// wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	role := domain.PrimaryRole(user.Roles)
	if role == "" {
		s.logger.Warn().Str("username", user.Username).Strs("roles", user.Roles).Msg("login refused: user holds no known role")
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(user, role)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &ports.LoginResult{
		Token:      token,
		Expiration: exp,
		Username:   user.Username,
		Role:       role,
	}, nil
}

func (s *AuthService) usernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := s.repo.FindByUsername(ctx, username)
	return found(err)
}

func (s *AuthService) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.FindByEmail(ctx, email)
	return found(err)
}

func found(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrUserNotFound):
		return false, nil
	default:
		return false, err
	}
}

// newUser builds an unsaved user with a hashed password and a fresh security stamp.
func newUser(username, email, password string, roles ...string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	return &domain.User{
		Username:           username,
		NormalizedUsername: domain.Normalize(username),
		Email:              email,
		NormalizedEmail:    domain.Normalize(email),
		PasswordHash:       string(hash),
		SecurityStamp:      uuid.NewString(),
		Roles:              roles,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func usernameTakenMsg(username string) string {
	return fmt.Sprintf("Username '%s' is already taken.", username)
}

func emailTakenMsg(email string) string {
	return fmt.Sprintf("Email '%s' is already taken.", email)
}
