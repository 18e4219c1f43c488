package models

import "time"

// Listing represents a travel listing that can be booked.
type Listing struct {
	ID          string    `bson:"id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Price       float64   `bson:"price" json:"price"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
