package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ngcore/storefront-api/internal/core/domain"
)

const rolesCollection = "roles"

type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(rolesCollection)}
}

// EnsureRoles upserts each role by normalized name; existing documents are left untouched.
func (r *RoleRepository) EnsureRoles(ctx context.Context, roles []domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, role := range roles {
		_, err := r.coll.UpdateOne(ctx,
			bson.M{"normalized_name": role.NormalizedName},
			bson.M{"$setOnInsert": bson.M{
				"_id":             role.ID,
				"name":            role.Name,
				"normalized_name": role.NormalizedName,
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("upsert role %s: %w", role.Name, err)
		}
	}
	return nil
}
