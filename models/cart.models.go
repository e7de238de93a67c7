package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart represents a user's shopping cart. Items maps a product ID (hex)
// to its quantity; entries always carry a quantity of at least 1, a
// quantity reaching 0 removes the entry.
type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items  map[string]int     `bson:"items" json:"items"`
}

// CartProduct is a product joined with its quantity in the cart
type CartProduct struct {
	Product  `bson:",inline"`
	Quantity int `json:"quantity"`
}
