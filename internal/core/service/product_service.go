package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ngcore/storefront-api/internal/core/domain"
	"github.com/ngcore/storefront-api/internal/core/ports"
)

type ProductService struct {
	repo   ports.ProductRepository
	cache  ports.ProductCache // optional
	logger zerolog.Logger
}

// NewProductService returns a ProductService. cache may be nil.
func NewProductService(repo ports.ProductRepository, cache ports.ProductCache, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, cache: cache, logger: logger}
}

// List returns every product. The listing is served from the cache when
// present; cache errors fall through to the store. A store read is cached
// only if no mutation invalidated the cache while it ran.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	var (
		gen     int64
		fillGen bool
	)
	if s.cache != nil {
		products, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("product cache read failed, reading store")
		} else if ok {
			return products, nil
		}

		gen, err = s.cache.Generation(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("product cache generation read failed, skipping fill")
		} else {
			fillGen = true
		}
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}

	if fillGen {
		if err := s.cache.Set(ctx, gen, products); err != nil {
			s.logger.Warn().Err(err).Msg("product cache write failed")
		}
	}
	return products, nil
}

func (s *ProductService) Add(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	p := fromInput(0, in)
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, fmt.Errorf("add product: %w", err)
	}

	if err := s.invalidate(ctx); err != nil {
		return nil, fmt.Errorf("add product %d: %w", p.ID, err)
	}
	s.logger.Info().Int64("product_id", p.ID).Str("name", p.Name).Msg("product created")
	return p, nil
}

// Update replaces all mutable fields of product id.
func (s *ProductService) Update(ctx context.Context, id int64, in ports.ProductInput) (*domain.Product, error) {
	p := fromInput(id, in)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}

	if err := s.invalidate(ctx); err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	s.logger.Info().Int64("product_id", id).Msg("product updated")
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	if err := s.invalidate(ctx); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

// invalidate drops the cached listing after a committed mutation. A failure
// is returned to the caller: the change is stored but the cache may still
// serve the previous listing until its TTL expires.
func (s *ProductService) invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Error().Err(err).Msg("product cache invalidation failed after write")
		return err
	}
	return nil
}

func fromInput(id int64, in ports.ProductInput) *domain.Product {
	return &domain.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		OutOfStock:  in.OutOfStock,
	}
}
