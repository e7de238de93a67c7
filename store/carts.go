package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-storefront/models"
)

// CartStore provides access to the carts collection. One document exists
// per user, holding a productID -> quantity mapping. All mutations go
// through single atomic update operators ($inc, $set, $unset) so that
// concurrent requests against the same cart never lose an update.
type CartStore struct {
	collection *mongo.Collection
}

// NewCartStore creates a new CartStore
func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{collection: db.Collection("carts")}
}

// Get returns the user's cart, or nil when the user has no cart document
func (s *CartStore) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Increment atomically adds delta to the quantity of the given product,
// creating the cart document and the entry as needed
func (s *CartStore) Increment(ctx context.Context, userID primitive.ObjectID, productID string, delta int) error {
	opts := options.Update().SetUpsert(true)
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$inc": bson.M{"items." + productID: delta}},
		opts,
	)
	return err
}

// Remove drops the given product from the cart
func (s *CartStore) Remove(ctx context.Context, userID primitive.ObjectID, productID string) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$unset": bson.M{"items." + productID: ""}},
	)
	return err
}

// RemoveExisting drops the given product and reports whether it was
// present in the cart
func (s *CartStore) RemoveExisting(ctx context.Context, userID primitive.ObjectID, productID string) (bool, error) {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "items." + productID: bson.M{"$exists": true}},
		bson.M{"$unset": bson.M{"items." + productID: ""}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// SetQuantity overwrites the quantity of a product already in the cart
// and reports whether the product was present
func (s *CartStore) SetQuantity(ctx context.Context, userID primitive.ObjectID, productID string, quantity int) (bool, error) {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "items." + productID: bson.M{"$exists": true}},
		bson.M{"$set": bson.M{"items." + productID: quantity}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// Clear empties the user's cart
func (s *CartStore) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": bson.M{}}},
	)
	return err
}
