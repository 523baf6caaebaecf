package ports

import (
	"context"

	"github.com/ngcore/storefront-api/internal/core/domain"
)

// ProductInput holds the mutable fields of a product.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	ImageURL    string
	OutOfStock  bool
}

// ProductService defines use-case operations for the inventory.
type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Add(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}
