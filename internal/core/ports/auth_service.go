package ports

import (
	"context"
	"time"

	"github.com/ngcore/storefront-api/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token      string
	Expiration time.Time
	Username   string
	Role       string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

// TokenClaims is the decoded content of a bearer token.
type TokenClaims struct {
	Subject   string
	TokenID   string
	UserID    string
	Role      string
	LoggedOn  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(user *domain.User, role string) (token string, expiresAt time.Time, err error)
	TokenParser
}

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	Parse(token string) (*TokenClaims, error)
}
