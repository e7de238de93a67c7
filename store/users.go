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

// UserStore provides access to the users collection
type UserStore struct {
	collection *mongo.Collection
}

// NewUserStore creates a new UserStore
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{collection: db.Collection("users")}
}

// Insert creates a new user and returns its id
func (s *UserStore) Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	result, err := s.collection.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// ByID returns the user with the given id, or nil when no user matches
func (s *UserStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ByEmail returns the user with the given email, or nil when no user matches
func (s *UserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameTaken reports whether a user already holds the given username
func (s *UserStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{"username": username})
	return count > 0, err
}

// EmailTaken reports whether a user already holds the given email
func (s *UserStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{"email": email})
	return count > 0, err
}

// Count returns the total number of users
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{})
}
