package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ngcore/storefront-api/internal/core/domain"
)

const (
	usersCollection = "users"
	usernameIndex   = "ux_normalized_username"
	emailIndex      = "ux_normalized_email"
)

// AuthRepository stores users with their role names embedded, so creating a
// user and its memberships is a single insert.
type AuthRepository struct {
	coll *mongo.Collection
}

func NewAuthRepository(db *mongo.Database) *AuthRepository {
	return &AuthRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Username           string             `bson:"username"`
	NormalizedUsername string             `bson:"normalized_username"`
	Email              string             `bson:"email"`
	NormalizedEmail    string             `bson:"normalized_email"`
	PasswordHash       string             `bson:"password_hash"`
	SecurityStamp      string             `bson:"security_stamp"`
	Roles              []string           `bson:"roles"`
	CreatedAt          int64              `bson:"created_at"`
	UpdatedAt          int64              `bson:"updated_at"`
}

func (r *AuthRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Username:           user.Username,
		NormalizedUsername: user.NormalizedUsername,
		Email:              user.Email,
		NormalizedEmail:    user.NormalizedEmail,
		PasswordHash:       user.PasswordHash,
		SecurityStamp:      user.SecurityStamp,
		Roles:              user.Roles,
		CreatedAt:          user.CreatedAt.Unix(),
		UpdatedAt:          user.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), emailIndex) {
				return nil, domain.ErrDuplicateEmail
			}
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *AuthRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"normalized_username": domain.Normalize(username)})
}

func (r *AuthRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"normalized_email": domain.Normalize(email)})
}

func (r *AuthRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &domain.User{
		ID:                 mu.ID.Hex(),
		Username:           mu.Username,
		NormalizedUsername: mu.NormalizedUsername,
		Email:              mu.Email,
		NormalizedEmail:    mu.NormalizedEmail,
		PasswordHash:       mu.PasswordHash,
		SecurityStamp:      mu.SecurityStamp,
		Roles:              mu.Roles,
		CreatedAt:          unixToTime(mu.CreatedAt),
		UpdatedAt:          unixToTime(mu.UpdatedAt),
	}, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
