package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/assets"
	"go-storefront/models"
)

const (
	imageFolder      = "products"
	recommendedCount = 4
)

// ProductStore is the catalog persistence required by ProductService
type ProductStore interface {
	All(ctx context.Context) ([]models.Product, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ByCategory(ctx context.Context, category string) ([]models.Product, error)
	Featured(ctx context.Context) ([]models.Product, error)
	Sample(ctx context.Context, n int) ([]models.Product, error)
	Insert(ctx context.Context, product *models.Product) (primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) (*models.Product, error)
}

// FeaturedCache caches the featured product list; Get returns nil on a miss
type FeaturedCache interface {
	Get(ctx context.Context) ([]models.Product, error)
	Set(ctx context.Context, products []models.Product) error
}

// CreateProductInput is the admin product-creation payload
type CreateProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

// ProductService implements catalog operations, the featured-product
// cache and the image-host boundary
type ProductService struct {
	products ProductStore
	cache    FeaturedCache
	images   assets.ImageStore
}

// NewProductService creates a new ProductService
func NewProductService(products ProductStore, cache FeaturedCache, images assets.ImageStore) *ProductService {
	return &ProductService{products: products, cache: cache, images: images}
}

// All returns the full catalog
func (s *ProductService) All(ctx context.Context) ([]models.Product, error) {
	return s.products.All(ctx)
}

// Featured returns the featured products through the read-through cache.
// Cache failures fall back to the document store.
func (s *ProductService) Featured(ctx context.Context) ([]models.Product, error) {
	cached, err := s.cache.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("featured products cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	featured, err := s.products.Featured(ctx)
	if err != nil {
		return nil, err
	}
	if len(featured) == 0 {
		return nil, fmt.Errorf("%w: no featured products", ErrNotFound)
	}

	if err := s.cache.Set(ctx, featured); err != nil {
		log.Warn().Err(err).Msg("featured products cache write failed")
	}
	return featured, nil
}

// ByCategory returns the products in the given category
func (s *ProductService) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.products.ByCategory(ctx, category)
}

// Recommended returns a random sample of products for the storefront
func (s *ProductService) Recommended(ctx context.Context) ([]models.Product, error) {
	return s.products.Sample(ctx, recommendedCount)
}

// Create uploads the product image to the asset host and inserts the
// product (admin only)
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.Name == "" || input.Description == "" || input.Category == "" {
		return nil, fmt.Errorf("%w: name, description and category are required", ErrInvalidInput)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	imageURL := ""
	if input.Image != "" {
		url, err := s.images.Upload(ctx, input.Image, imageFolder)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Image:       imageURL,
		Category:    input.Category,
	}
	id, err := s.products.Insert(ctx, product)
	if err != nil {
		return nil, err
	}
	product.ID = id
	return product, nil
}

// Delete removes a product (admin only). The hosted image is deleted
// best-effort: a failure is logged and the product is removed anyway.
func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	product, err := s.products.ByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: product %s", ErrNotFound, id.Hex())
	}

	if product.Image != "" {
		publicID := imageFolder + "/" + imagePublicID(product.Image)
		if err := s.images.Delete(ctx, publicID); err != nil {
			log.Warn().Err(err).Str("product_id", id.Hex()).Msg("deleting product image failed")
		}
	}

	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: product %s", ErrNotFound, id.Hex())
	}
	return nil
}

// ToggleFeatured flips the featured flag (admin only) and re-populates
// the featured cache best-effort
func (s *ProductService) ToggleFeatured(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id.Hex())
	}

	updated, err := s.products.SetFeatured(ctx, id, !product.IsFeatured)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id.Hex())
	}

	s.refreshFeaturedCache(ctx)

	return updated, nil
}

// refreshFeaturedCache re-populates the cache from the document store;
// failures are logged and swallowed
func (s *ProductService) refreshFeaturedCache(ctx context.Context) {
	featured, err := s.products.Featured(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("refreshing featured products cache failed")
		return
	}
	if err := s.cache.Set(ctx, featured); err != nil {
		log.Warn().Err(err).Msg("featured products cache write failed")
	}
}

// imagePublicID extracts the asset id from a hosted image URL: the last
// path segment without its extension
func imagePublicID(imageURL string) string {
	base := path.Base(imageURL)
	return strings.TrimSuffix(base, path.Ext(base))
}
