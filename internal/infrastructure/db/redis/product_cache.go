package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ngcore/storefront-api/internal/core/domain"
)

const (
	productListKey  = "products:all"
	productGenKey   = "products:gen"
	defaultCacheTTL = 5 * time.Minute
)

var errStaleGeneration = errors.New("product cache generation moved")

// ProductCache stores the full product list as a single JSON value, guarded
// by a generation counter bumped on every invalidation.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache wraps client. A non-positive ttl falls back to five minutes.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ProductCache{client: client, ttl: ttl}
}

// Get returns the cached list and whether it was present.
func (c *ProductCache) Get(ctx context.Context) ([]domain.Product, bool, error) {
	raw, err := c.client.Get(ctx, productListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("product cache get: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false, fmt.Errorf("product cache decode: %w", err)
	}
	return products, true, nil
}

func (c *ProductCache) Generation(ctx context.Context) (int64, error) {
	return readGeneration(ctx, c.client)
}

// Set writes products only while the generation still equals gen. The check
// and the write run in one WATCH transaction; a concurrent Invalidate aborts it.
func (c *ProductCache) Set(ctx context.Context, gen int64, products []domain.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("product cache encode: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, productListKey, raw, c.ttl)
			return nil
		})
		return err
	}, productGenKey)

	if errors.Is(err, errStaleGeneration) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("product cache set: %w", err)
	}
	return nil
}

func (c *ProductCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, productGenKey)
		pipe.Del(ctx, productListKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("product cache invalidate: %w", err)
	}
	return nil
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, cmd getter) (int64, error) {
	gen, err := cmd.Get(ctx, productGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("product cache generation: %w", err)
	}
	return gen, nil
}
