package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coupon represents a time-boxed percentage discount bound to one user.
// A user holds at most one active coupon at a time.
type Coupon struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Code               string             `bson:"code" json:"code"`
	DiscountPercentage int                `bson:"discount_percentage" json:"discount_percentage"`
	ExpirationDate     time.Time          `bson:"expiration_date" json:"expiration_date"`
	UserID             primitive.ObjectID `bson:"user_id" json:"user_id"`
	IsActive           bool               `bson:"is_active" json:"is_active"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
}
