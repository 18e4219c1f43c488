package listingRepo

import (
	"context"
	"time"

	"travelapp/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new listing and returns its ID.
func (r *mongoListingRepo) Create(ctx context.Context, listing *models.Listing) (string, error) {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	listing.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, listing)
	if err != nil {
		return "", err
	}
	return listing.ID, nil
}

// GetByID returns a listing by its ID.
func (r *mongoListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	var listing models.Listing
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&listing)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetAll returns all listings, newest first.
func (r *mongoListingRepo) GetAll(ctx context.Context) ([]models.Listing, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// Update applies a partial update to a listing.
func (r *mongoListingRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a listing by ID.
func (r *mongoListingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
