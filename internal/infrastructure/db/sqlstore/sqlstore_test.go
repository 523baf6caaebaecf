package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ngcore/storefront-api/internal/core/domain"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open(Config{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })

	if err := NewRoleRepository(db).EnsureRoles(context.Background(), domain.SeedRoles); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	return db
}

func testUser(username, email string, roles ...string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		Username:           username,
		NormalizedUsername: domain.Normalize(username),
		Email:              email,
		NormalizedEmail:    domain.Normalize(email),
		PasswordHash:       "hash",
		SecurityStamp:      "stamp",
		Roles:              roles,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "oracle"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestRoleRepository_EnsureRolesIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewRoleRepository(db)

	if err := repo.EnsureRoles(context.Background(), domain.SeedRoles); err != nil {
		t.Fatalf("second ensure: %v", err)
	}

	var count int64
	if err := db.Model(&roleModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != int64(len(domain.SeedRoles)) {
		t.Errorf("expected %d roles, got %d", len(domain.SeedRoles), count)
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, testUser("alice", "alice@example.com", domain.RoleCustomer))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated id")
	}

	byName, err := repo.FindByUsername(ctx, "ALICE")
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if byName.Username != "alice" || len(byName.Roles) != 1 || byName.Roles[0] != domain.RoleCustomer {
		t.Errorf("unexpected user: %+v", byName)
	}

	byEmail, err := repo.FindByEmail(ctx, "Alice@Example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Errorf("id mismatch: %s vs %s", byEmail.ID, created.ID)
	}
}

func TestUserRepository_FindMissing(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.FindByUsername(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_DuplicateUsernameAndEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	if _, err := repo.Create(ctx, testUser("bob", "bob@example.com", domain.RoleCustomer)); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := repo.Create(ctx, testUser("BOB", "other@example.com", domain.RoleCustomer))
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}

	_, err = repo.Create(ctx, testUser("robert", "BOB@example.com", domain.RoleCustomer))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepository_UnknownRoleLeavesNoUser(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	if _, err := repo.Create(ctx, testUser("carol", "carol@example.com", "Auditor")); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if _, err := repo.FindByUsername(ctx, "carol"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("user should not exist after failed create, got %v", err)
	}
}

func TestProductRepository_RoundTrip(t *testing.T) {
	repo := NewProductRepository(newTestDB(t))
	ctx := context.Background()

	p := &domain.Product{Name: "Lamp", Description: "Desk lamp", Price: 19.5, ImageURL: "lamp.png", OutOfStock: true}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected assigned id")
	}

	p.Name = "Floor lamp"
	p.OutOfStock = false
	p.Price = 0
	if err := repo.Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0] != *p {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, p.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("second delete: expected ErrProductNotFound, got %v", err)
	}
	if err := repo.Update(ctx, p); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("update after delete: expected ErrProductNotFound, got %v", err)
	}
}

func TestProductRepository_IDsIncrease(t *testing.T) {
	repo := NewProductRepository(newTestDB(t))
	ctx := context.Background()

	first := &domain.Product{Name: "A", Description: "a", ImageURL: "a.png"}
	second := &domain.Product{Name: "B", Description: "b", ImageURL: "b.png"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("expected increasing ids, got %d then %d", first.ID, second.ID)
	}
}
