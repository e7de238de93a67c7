package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
)

// CartStore is the cart persistence required by CartService
type CartStore interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Increment(ctx context.Context, userID primitive.ObjectID, productID string, delta int) error
	Remove(ctx context.Context, userID primitive.ObjectID, productID string) error
	RemoveExisting(ctx context.Context, userID primitive.ObjectID, productID string) (bool, error)
	SetQuantity(ctx context.Context, userID primitive.ObjectID, productID string, quantity int) (bool, error)
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// ProductFinder is the product lookup required by CartService
type ProductFinder interface {
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
}

// CartService implements cart operations over the keyed
// productID -> quantity mapping
type CartService struct {
	carts    CartStore
	products ProductFinder
}

// NewCartService creates a new CartService
func NewCartService(carts CartStore, products ProductFinder) *CartService {
	return &CartService{carts: carts, products: products}
}

// AddItem increments the product's quantity, inserting it at quantity 1
// when absent. The product must exist in the catalog.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID) error {
	product, err := s.products.ByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: product %s", ErrNotFound, productID.Hex())
	}
	return s.carts.Increment(ctx, userID, productID.Hex(), 1)
}

// RemoveItem drops one product from the cart. Removing an absent product
// is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) error {
	return s.carts.Remove(ctx, userID, productID.Hex())
}

// ClearCart empties the cart
func (s *CartService) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	return s.carts.Clear(ctx, userID)
}

// SetQuantity overwrites a cart entry's quantity; 0 removes the entry.
// Fails with ErrNotFound when the product is not already in the cart.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}

	var (
		matched bool
		err     error
	)
	if quantity == 0 {
		matched, err = s.carts.RemoveExisting(ctx, userID, productID.Hex())
	} else {
		matched, err = s.carts.SetQuantity(ctx, userID, productID.Hex(), quantity)
	}
	if err != nil {
		return err
	}
	if !matched {
		return fmt.Errorf("%w: product %s not in cart", ErrNotFound, productID.Hex())
	}
	return nil
}

// Products returns the cart contents joined against the catalog, each
// product annotated with its quantity
func (s *CartService) Products(ctx context.Context, userID primitive.ObjectID) ([]models.CartProduct, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return []models.CartProduct{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for hex := range cart.Items {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed product id %q in cart", ErrInvalidInput, hex)
		}
		ids = append(ids, id)
	}

	products, err := s.products.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	cartProducts := make([]models.CartProduct, 0, len(products))
	for _, product := range products {
		cartProducts = append(cartProducts, models.CartProduct{
			Product:  product,
			Quantity: cart.Items[product.ID.Hex()],
		})
	}
	return cartProducts, nil
}
