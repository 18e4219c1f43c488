package bookingRepo

import (
	"context"
	"errors"

	"travelapp/database"
	"travelapp/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no booking matches the given id.
var ErrNotFound = errors.New("booking not found")

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) (string, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetAll(ctx context.Context) ([]models.Booking, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a new BookingRepository instance using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database("travelapp")
	return &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}
