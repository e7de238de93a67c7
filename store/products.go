package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-storefront/models"
)

// ProductStore provides access to the products collection
type ProductStore struct {
	collection *mongo.Collection
}

// NewProductStore creates a new ProductStore
func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{collection: db.Collection("products")}
}

// All returns every product in the catalog
func (s *ProductStore) All(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return decodeProducts(ctx, cursor)
}

// ByID returns the product with the given id, or nil when no product matches
func (s *ProductStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ByIDs returns the products matching the given ids
func (s *ProductStore) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return decodeProducts(ctx, cursor)
}

// ByCategory returns the products in the given category
func (s *ProductStore) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"category": category})
	if err != nil {
		return nil, err
	}
	return decodeProducts(ctx, cursor)
}

// Featured returns every product carrying the featured flag
func (s *ProductStore) Featured(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"is_featured": true})
	if err != nil {
		return nil, err
	}
	return decodeProducts(ctx, cursor)
}

// Sample returns up to n random products
func (s *ProductStore) Sample(ctx context.Context, n int) ([]models.Product, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.M{"size": n}}},
	}
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return decodeProducts(ctx, cursor)
}

// Insert creates a new product and returns its id
func (s *ProductStore) Insert(ctx context.Context, product *models.Product) (primitive.ObjectID, error) {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	result, err := s.collection.InsertOne(ctx, product)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// Delete removes the product with the given id and reports whether a
// document was deleted
func (s *ProductStore) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// SetFeatured updates the featured flag and returns the updated product,
// or nil when no product matches
func (s *ProductStore) SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) (*models.Product, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var product models.Product
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_featured": featured}},
		opts,
	).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Count returns the total number of products
func (s *ProductStore) Count(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{})
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	defer cursor.Close(ctx)

	var products []models.Product
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
