package ports

import (
	"context"

	"github.com/ngcore/storefront-api/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	// Create assigns the next id to p and inserts it.
	Create(ctx context.Context, p *domain.Product) error
	// Update overwrites every mutable field of the product with p.ID.
	// Returns domain.ErrProductNotFound when no such row exists.
	Update(ctx context.Context, p *domain.Product) error
	// Delete removes the product. Returns domain.ErrProductNotFound when absent.
	Delete(ctx context.Context, id int64) error
}

// ProductCache stores the full product listing between mutations.
//
// Every Invalidate advances a generation counter. A listing read from the
// store is only cached if the generation observed before the read is still
// current, so a listing that raced with a mutation is never stored.
type ProductCache interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context) (products []domain.Product, ok bool, err error)
	// Generation returns the current generation.
	Generation(ctx context.Context) (int64, error)
	// Set stores products unless the generation moved past gen.
	Set(ctx context.Context, gen int64, products []domain.Product) error
	// Invalidate drops the listing and advances the generation.
	Invalidate(ctx context.Context) error
}
