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

// fakeCartStore mimics the atomic cart document operations in memory.
type fakeCartStore struct {
	carts map[string]map[string]int // userID hex -> productID hex -> quantity
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string]map[string]int)}
}

func (f *fakeCartStore) items(userID primitive.ObjectID) map[string]int {
	items, ok := f.carts[userID.Hex()]
	if !ok {
		items = make(map[string]int)
		f.carts[userID.Hex()] = items
	}
	return items
}

func (f *fakeCartStore) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	items, ok := f.carts[userID.Hex()]
	if !ok {
		return nil, nil
	}
	return &models.Cart{UserID: userID, Items: items}, nil
}

func (f *fakeCartStore) Increment(ctx context.Context, userID primitive.ObjectID, productID string, delta int) error {
	f.items(userID)[productID] += delta
	return nil
}

func (f *fakeCartStore) Remove(ctx context.Context, userID primitive.ObjectID, productID string) error {
	delete(f.items(userID), productID)
	return nil
}

func (f *fakeCartStore) RemoveExisting(ctx context.Context, userID primitive.ObjectID, productID string) (bool, error) {
	items := f.items(userID)
	if _, ok := items[productID]; !ok {
		return false, nil
	}
	delete(items, productID)
	return true, nil
}

func (f *fakeCartStore) SetQuantity(ctx context.Context, userID primitive.ObjectID, productID string, quantity int) (bool, error) {
	items := f.items(userID)
	if _, ok := items[productID]; !ok {
		return false, nil
	}
	items[productID] = quantity
	return true, nil
}

func (f *fakeCartStore) Clear(ctx context.Context, userID primitive.ObjectID) error {
	f.carts[userID.Hex()] = make(map[string]int)
	return nil
}

// mockProductFinder is a mock implementation of ProductFinder.
type mockProductFinder struct {
	byIDFn  func(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	byIDsFn func(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
}

func (m *mockProductFinder) ByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	if m.byIDFn != nil {
		return m.byIDFn(ctx, id)
	}
	return &models.Product{ID: id}, nil
}

func (m *mockProductFinder) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if m.byIDsFn != nil {
		return m.byIDsFn(ctx, ids)
	}
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		products = append(products, models.Product{ID: id})
	}
	return products, nil
}

func TestCartService_AddItem_TwiceYieldsQuantityTwo(t *testing.T) {
	carts := newFakeCartStore()
	svc := NewCartService(carts, &mockProductFinder{})

	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	require.NoError(t, svc.AddItem(context.Background(), userID, productID))
	require.NoError(t, svc.AddItem(context.Background(), userID, productID))

	cart, err := carts.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "same product must stay a single entry")
	assert.Equal(t, 2, cart.Items[productID.Hex()])
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	carts := newFakeCartStore()
	svc := NewCartService(carts, &mockProductFinder{
		byIDFn: func(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
			return nil, nil
		},
	})

	err := svc.AddItem(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCartService_SetQuantity_ZeroRemovesEntry(t *testing.T) {
	carts := newFakeCartStore()
	svc := NewCartService(carts, &mockProductFinder{})

	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	require.NoError(t, svc.AddItem(context.Background(), userID, productID))

	require.NoError(t, svc.SetQuantity(context.Background(), userID, productID, 0))

	cart, err := carts.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "entry must be removed, never stored at 0")
}

func TestCartService_SetQuantity_AbsentProduct(t *testing.T) {
	carts := newFakeCartStore()
	svc := NewCartService(carts, &mockProductFinder{})

	err := svc.SetQuantity(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 3)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCartService_SetQuantity_Overwrites(t *testing.T) {
	carts := newFakeCartStore()
	svc := NewCartService(carts, &mockProductFinder{})

	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	require.NoError(t, svc.AddItem(context.Background(), userID, productID))

	require.NoError(t, svc.SetQuantity(context.Background(), userID, productID, 5))

	cart, err := carts.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[productID.Hex()])
}

func TestCartService_ClearCart(t *testing.T) {
	carts := newFakeCartStore()
	svc := NewCartService(carts, &mockProductFinder{})

	userID := primitive.NewObjectID()
	require.NoError(t, svc.AddItem(context.Background(), userID, primitive.NewObjectID()))
	require.NoError(t, svc.AddItem(context.Background(), userID, primitive.NewObjectID()))

	require.NoError(t, svc.ClearCart(context.Background(), userID))

	products, err := svc.Products(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCartService_Products_JoinsQuantities(t *testing.T) {
	carts := newFakeCartStore()
	svc := NewCartService(carts, &mockProductFinder{})

	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	require.NoError(t, svc.AddItem(context.Background(), userID, productID))
	require.NoError(t, svc.AddItem(context.Background(), userID, productID))
	require.NoError(t, svc.AddItem(context.Background(), userID, primitive.NewObjectID()))

	products, err := svc.Products(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, products, 2)

	quantities := make(map[string]int)
	for _, p := range products {
		quantities[p.ID.Hex()] = p.Quantity
	}
	assert.Equal(t, 2, quantities[productID.Hex()])
}

func TestCartService_Products_EmptyCart(t *testing.T) {
	svc := NewCartService(newFakeCartStore(), &mockProductFinder{})

	products, err := svc.Products(context.Background(), primitive.NewObjectID())

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}
