package models

import "time"

// Booking represents a guest's reservation of a listing.
//
// Contact and price fields are optional. Payment initiation resolves the
// amount as request override -> Booking.Price -> Listing.Price, and the
// confirmation recipient as Email -> AccountEmail (first present wins).
type Booking struct {
	ID           string    `bson:"id" json:"id"`
	ListingID    string    `bson:"listing_id" json:"listing_id"`
	GuestName    string    `bson:"guest_name" json:"guest_name"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	AccountEmail string    `bson:"account_email,omitempty" json:"account_email,omitempty"` // address of the linked guest account, if any
	FirstName    string    `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName     string    `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Price        float64   `bson:"price,omitempty" json:"price,omitempty"`
	StartDate    string    `bson:"start_date" json:"start_date"` // "YYYY-MM-DD"
	EndDate      string    `bson:"end_date" json:"end_date"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
