package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ngcore/storefront-api/internal/core/domain"
	"github.com/ngcore/storefront-api/internal/core/ports"
)

// loggedOnLayout renders the human-readable login timestamp claim.
const loggedOnLayout = "1/2/2006 3:04:05 PM"

// TokenConfig holds the signing parameters. It is copied into the issuer at
// construction and never mutated afterwards.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

type tokenClaims struct {
	NameID   string `json:"nameid"`
	Role     string `json:"role"`
	LoggedOn string `json:"LoggedOn"`
	jwt.RegisteredClaims
}

// JWTIssuer issues and validates HS256 tokens.
type JWTIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

func NewJWTIssuer(cfg TokenConfig) (*JWTIssuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token issuer: empty signing secret")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	return &JWTIssuer{cfg: cfg, now: time.Now}, nil
}

// Issue signs a token for user carrying the single role given.
func (i *JWTIssuer) Issue(user *domain.User, role string) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.cfg.TTL).Truncate(jwt.TimePrecision)

	claims := tokenClaims{
		NameID:   user.ID,
		Role:     role,
		LoggedOn: now.Format(loggedOnLayout),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ID:        uuid.NewString(),
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies signature, issuer, audience and expiry.
func (i *JWTIssuer) Parse(token string) (*ports.TokenClaims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return []byte(i.cfg.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithAudience(i.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	out := &ports.TokenClaims{
		Subject:  claims.Subject,
		TokenID:  claims.ID,
		UserID:   claims.NameID,
		Role:     claims.Role,
		LoggedOn: claims.LoggedOn,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
