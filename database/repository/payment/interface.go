package paymentRepo

import (
	"context"
	"errors"

	"travelapp/database"
	"travelapp/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no payment matches the given reference.
	ErrNotFound = errors.New("payment not found")
	// ErrConflict is returned when a payment with the same tx_ref already exists.
	ErrConflict = errors.New("tx_ref already exists")
)

// PaymentRepository is the durable store for payment attempts.
//
// Create and Update operate on a single document each, so concurrent
// readers never observe a torn status/checkout_url pair.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetByTxRef(ctx context.Context, txRef string) (*models.Payment, error)
	// FindPending returns the most recently created pending payment for the
	// booking/amount pair, or nil when there is none.
	FindPending(ctx context.Context, bookingID string, amount float64) (*models.Payment, error)
	Update(ctx context.Context, txRef string, fields map[string]interface{}) error
	EnsureIndexes(ctx context.Context) error
}

type mongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo returns a new PaymentRepository instance using MongoDB.
func NewMongoPaymentRepo() PaymentRepository {
	db := database.MongoClient.Database("travelapp")
	return &mongoPaymentRepo{
		coll: db.Collection("payments"),
	}
}
