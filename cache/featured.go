package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"go-storefront/models"
)

const featuredKey = "featured_products"

// FeaturedProducts is a read-through cache for the featured product list.
// It is best-effort: callers fall back to the document store on a miss or
// error, and a stale read between a toggle and the cache write is accepted.
type FeaturedProducts struct {
	client *redis.Client
}

// NewFeaturedProducts creates a cache over the given Redis client
func NewFeaturedProducts(client *redis.Client) *FeaturedProducts {
	return &FeaturedProducts{client: client}
}

// Get returns the cached featured products, or nil on a cache miss
func (c *FeaturedProducts) Get(ctx context.Context) ([]models.Product, error) {
	payload, err := c.client.Get(ctx, featuredKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Set stores the featured product list in the cache
func (c *FeaturedProducts) Set(ctx context.Context, products []models.Product) error {
	payload, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, featuredKey, payload, 0).Err()
}
