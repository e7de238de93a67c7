package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
)

// mockProductStore is a mock implementation of ProductStore.
type mockProductStore struct {
	allFn         func(ctx context.Context) ([]models.Product, error)
	byIDFn        func(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	byCategoryFn  func(ctx context.Context, category string) ([]models.Product, error)
	featuredFn    func(ctx context.Context) ([]models.Product, error)
	sampleFn      func(ctx context.Context, n int) ([]models.Product, error)
	insertFn      func(ctx context.Context, product *models.Product) (primitive.ObjectID, error)
	deleteFn      func(ctx context.Context, id primitive.ObjectID) (bool, error)
	setFeaturedFn func(ctx context.Context, id primitive.ObjectID, featured bool) (*models.Product, error)
}

func (m *mockProductStore) All(ctx context.Context) ([]models.Product, error) {
	if m.allFn != nil {
		return m.allFn(ctx)
	}
	return nil, nil
}

func (m *mockProductStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	if m.byIDFn != nil {
		return m.byIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockProductStore) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	if m.byCategoryFn != nil {
		return m.byCategoryFn(ctx, category)
	}
	return nil, nil
}

func (m *mockProductStore) Featured(ctx context.Context) ([]models.Product, error) {
	if m.featuredFn != nil {
		return m.featuredFn(ctx)
	}
	return nil, nil
}

func (m *mockProductStore) Sample(ctx context.Context, n int) ([]models.Product, error) {
	if m.sampleFn != nil {
		return m.sampleFn(ctx, n)
	}
	return nil, nil
}

func (m *mockProductStore) Insert(ctx context.Context, product *models.Product) (primitive.ObjectID, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, product)
	}
	return primitive.NewObjectID(), nil
}

func (m *mockProductStore) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return true, nil
}

func (m *mockProductStore) SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) (*models.Product, error) {
	if m.setFeaturedFn != nil {
		return m.setFeaturedFn(ctx, id, featured)
	}
	return nil, nil
}

// mockFeaturedCache is a mock implementation of FeaturedCache.
type mockFeaturedCache struct {
	cached   []models.Product
	getErr   error
	setErr   error
	stored   []models.Product
	setCalls int
}

func (m *mockFeaturedCache) Get(ctx context.Context) ([]models.Product, error) {
	return m.cached, m.getErr
}

func (m *mockFeaturedCache) Set(ctx context.Context, products []models.Product) error {
	m.setCalls++
	m.stored = products
	return m.setErr
}

// mockImageStore is a mock implementation of assets.ImageStore.
type mockImageStore struct {
	uploadFn func(ctx context.Context, image, folder string) (string, error)
	deleteFn func(ctx context.Context, publicID string) error
}

func (m *mockImageStore) Upload(ctx context.Context, image, folder string) (string, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, image, folder)
	}
	return "https://cdn.example.com/products/uploaded.png", nil
}

func (m *mockImageStore) Delete(ctx context.Context, publicID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, publicID)
	}
	return nil
}

func TestProductService_Featured_CacheHit(t *testing.T) {
	storeCalled := false
	store := &mockProductStore{
		featuredFn: func(ctx context.Context) ([]models.Product, error) {
			storeCalled = true
			return nil, nil
		},
	}
	cache := &mockFeaturedCache{cached: []models.Product{{Name: "Sneakers"}}}
	svc := NewProductService(store, cache, &mockImageStore{})

	products, err := svc.Featured(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Sneakers", products[0].Name)
	assert.False(t, storeCalled, "a cache hit must not touch the document store")
}

func TestProductService_Featured_CacheMissPopulates(t *testing.T) {
	featured := []models.Product{{Name: "Sneakers", IsFeatured: true}}
	store := &mockProductStore{
		featuredFn: func(ctx context.Context) ([]models.Product, error) {
			return featured, nil
		},
	}
	cache := &mockFeaturedCache{}
	svc := NewProductService(store, cache, &mockImageStore{})

	products, err := svc.Featured(context.Background())

	require.NoError(t, err)
	assert.Equal(t, featured, products)
	assert.Equal(t, featured, cache.stored, "a miss must populate the cache")
}

func TestProductService_Featured_NoneFound(t *testing.T) {
	svc := NewProductService(&mockProductStore{}, &mockFeaturedCache{}, &mockImageStore{})

	_, err := svc.Featured(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestProductService_Featured_CacheErrorFallsBack(t *testing.T) {
	featured := []models.Product{{Name: "Sneakers", IsFeatured: true}}
	store := &mockProductStore{
		featuredFn: func(ctx context.Context) ([]models.Product, error) {
			return featured, nil
		},
	}
	cache := &mockFeaturedCache{getErr: errors.New("connection refused")}
	svc := NewProductService(store, cache, &mockImageStore{})

	products, err := svc.Featured(context.Background())

	require.NoError(t, err)
	assert.Equal(t, featured, products)
}

func TestProductService_Create_UploadsImage(t *testing.T) {
	var uploadedFolder string
	images := &mockImageStore{
		uploadFn: func(ctx context.Context, image, folder string) (string, error) {
			uploadedFolder = folder
			return "https://cdn.example.com/products/abc123.png", nil
		},
	}
	svc := NewProductService(&mockProductStore{}, &mockFeaturedCache{}, images)

	product, err := svc.Create(context.Background(), CreateProductInput{
		Name:        "Sneakers",
		Description: "Running shoes",
		Price:       59.99,
		Image:       "data:image/png;base64,AAAA",
		Category:    "shoes",
	})

	require.NoError(t, err)
	assert.Equal(t, "products", uploadedFolder)
	assert.Equal(t, "https://cdn.example.com/products/abc123.png", product.Image)
	assert.False(t, product.ID.IsZero())
}

func TestProductService_Create_MissingFields(t *testing.T) {
	svc := NewProductService(&mockProductStore{}, &mockFeaturedCache{}, &mockImageStore{})

	_, err := svc.Create(context.Background(), CreateProductInput{Name: "Sneakers"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestProductService_Delete_RemovesDespiteImageFailure(t *testing.T) {
	id := primitive.NewObjectID()
	store := &mockProductStore{
		byIDFn: func(ctx context.Context, pid primitive.ObjectID) (*models.Product, error) {
			return &models.Product{ID: pid, Image: "https://cdn.example.com/products/abc123.png"}, nil
		},
	}
	var deletedPublicID string
	images := &mockImageStore{
		deleteFn: func(ctx context.Context, publicID string) error {
			deletedPublicID = publicID
			return errors.New("asset host unavailable")
		},
	}
	svc := NewProductService(store, &mockFeaturedCache{}, images)

	err := svc.Delete(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "products/abc123", deletedPublicID)
}

func TestProductService_Delete_UnknownProduct(t *testing.T) {
	svc := NewProductService(&mockProductStore{}, &mockFeaturedCache{}, &mockImageStore{})

	err := svc.Delete(context.Background(), primitive.NewObjectID())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestProductService_ToggleFeatured_FlipsAndRefreshesCache(t *testing.T) {
	id := primitive.NewObjectID()
	store := &mockProductStore{
		byIDFn: func(ctx context.Context, pid primitive.ObjectID) (*models.Product, error) {
			return &models.Product{ID: pid, IsFeatured: false}, nil
		},
		setFeaturedFn: func(ctx context.Context, pid primitive.ObjectID, featured bool) (*models.Product, error) {
			assert.True(t, featured)
			return &models.Product{ID: pid, IsFeatured: featured}, nil
		},
		featuredFn: func(ctx context.Context) ([]models.Product, error) {
			return []models.Product{{ID: id, IsFeatured: true}}, nil
		},
	}
	cache := &mockFeaturedCache{}
	svc := NewProductService(store, cache, &mockImageStore{})

	updated, err := svc.ToggleFeatured(context.Background(), id)

	require.NoError(t, err)
	assert.True(t, updated.IsFeatured)
	assert.Equal(t, 1, cache.setCalls, "the featured cache must be refreshed")
}
