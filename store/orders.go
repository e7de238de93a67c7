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

// OrderStore provides access to the orders collection
type OrderStore struct {
	collection *mongo.Collection
}

// NewOrderStore creates a new OrderStore
func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{collection: db.Collection("orders")}
}

// EnsureIndexes creates the unique index on the checkout session id. It
// is what makes one-order-per-session hold under concurrent
// confirmations of the same session.
func (s *OrderStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "stripe_session_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Insert creates a new order and returns its id
func (s *OrderStore) Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	result, err := s.collection.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// BySessionID returns the order recorded for the given checkout session,
// or nil when none exists
func (s *OrderStore) BySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	err := s.collection.FindOne(ctx, bson.M{"stripe_session_id": sessionID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Totals returns the total number of orders and the summed revenue
func (s *OrderStore) Totals(ctx context.Context) (int64, float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"total_sales":   bson.M{"$sum": 1},
			"total_revenue": bson.M{"$sum": "$total_amount"},
		}}},
	}
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var result struct {
		TotalSales   int64   `bson:"total_sales"`
		TotalRevenue float64 `bson:"total_revenue"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, 0, err
		}
	}
	if err := cursor.Err(); err != nil {
		return 0, 0, err
	}
	return result.TotalSales, result.TotalRevenue, nil
}

// DailySales buckets orders created in the half-open [start, end) window
// by UTC calendar day. Days without orders produce no row; callers
// densify.
func (s *OrderStore) DailySales(ctx context.Context, start, end time.Time) ([]models.DailySale, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"created_at": bson.M{"$gte": start, "$lt": end},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
			"sales":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$total_amount"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.DailySale
	for cursor.Next(ctx) {
		var row models.DailySale
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the total number of orders
func (s *OrderStore) Count(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{})
}
