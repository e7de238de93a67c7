package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalog product
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Image       string             `bson:"image" json:"image"`
	Category    string             `bson:"category" json:"category"`
	IsFeatured  bool               `bson:"is_featured" json:"is_featured"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
