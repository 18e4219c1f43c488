package bookingRepo

import (
	"context"
	"time"

	"travelapp/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new booking and returns its ID.
func (r *mongoBookingRepo) Create(ctx context.Context, booking *models.Booking) (string, error) {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	booking.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, booking)
	if err != nil {
		return "", err
	}
	return booking.ID, nil
}

// GetByID returns a booking by its ID.
func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetAll returns all bookings, newest first.
func (r *mongoBookingRepo) GetAll(ctx context.Context) ([]models.Booking, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Update applies a partial update to a booking.
func (r *mongoBookingRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a booking by ID. Payments referencing the booking are kept
// as an audit trail.
func (r *mongoBookingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
