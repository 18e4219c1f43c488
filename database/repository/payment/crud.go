package paymentRepo

import (
	"context"
	"time"

	"travelapp/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new payment record. The document is written whole, so a
// payment is never visible with a tx_ref but no status.
func (r *mongoPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, payment)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return err
}

// GetByID returns a payment by its internal ID.
func (r *mongoPaymentRepo) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetByTxRef returns a payment by its provider-facing transaction reference.
func (r *mongoPaymentRepo) GetByTxRef(ctx context.Context, txRef string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"tx_ref": txRef})
}

// FindPending returns the newest pending payment for (bookingID, amount),
// or nil when none exists.
func (r *mongoPaymentRepo) FindPending(ctx context.Context, bookingID string, amount float64) (*models.Payment, error) {
	filter := bson.M{
		"booking_id": bookingID,
		"amount":     amount,
		"status":     models.PaymentStatusPending,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var payment models.Payment
	err := r.coll.FindOne(ctx, filter, opts).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Update applies a partial update as a single $set, atomic with respect to
// concurrent readers.
func (r *mongoPaymentRepo) Update(ctx context.Context, txRef string, fields map[string]interface{}) error {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"tx_ref": txRef}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoPaymentRepo) findOne(ctx context.Context, filter bson.M) (*models.Payment, error) {
	var payment models.Payment
	err := r.coll.FindOne(ctx, filter).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
