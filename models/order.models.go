package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a purchased product with the unit price captured at checkout
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
}

// Order represents a confirmed purchase. Exactly one order exists per
// Stripe checkout session.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items           []OrderItem        `bson:"items" json:"items"`
	TotalAmount     float64            `bson:"total_amount" json:"total_amount"`
	StripeSessionID string             `bson:"stripe_session_id" json:"stripe_session_id"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}
