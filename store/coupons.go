package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-storefront/models"
)

// CouponStore provides access to the coupons collection
type CouponStore struct {
	collection *mongo.Collection
}

// NewCouponStore creates a new CouponStore
func NewCouponStore(db *mongo.Database) *CouponStore {
	return &CouponStore{collection: db.Collection("coupons")}
}

// ActiveByUser returns the user's active coupon, or nil when none exists
func (s *CouponStore) ActiveByUser(ctx context.Context, userID primitive.ObjectID) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.collection.FindOne(ctx, bson.M{"user_id": userID, "is_active": true}).Decode(&coupon)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// ActiveByCode returns the user's active coupon matching the given code,
// or nil when none matches
func (s *CouponStore) ActiveByCode(ctx context.Context, userID primitive.ObjectID, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.collection.FindOne(ctx, bson.M{"user_id": userID, "code": code, "is_active": true}).Decode(&coupon)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// Deactivate clears the active flag on the coupon with the given id
func (s *CouponStore) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_active": false}},
	)
	return err
}

// DeactivateByCode clears the active flag on the user's coupon with the
// given code
func (s *CouponStore) DeactivateByCode(ctx context.Context, userID primitive.ObjectID, code string) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "code": code},
		bson.M{"$set": bson.M{"is_active": false}},
	)
	return err
}

// DeleteByUser removes every coupon owned by the user
func (s *CouponStore) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

// Insert creates a new coupon
func (s *CouponStore) Insert(ctx context.Context, coupon *models.Coupon) error {
	if coupon.CreatedAt.IsZero() {
		coupon.CreatedAt = time.Now()
	}
	result, err := s.collection.InsertOne(ctx, coupon)
	if err != nil {
		return err
	}
	coupon.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}
