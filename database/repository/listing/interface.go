package listingRepo

import (
	"context"
	"errors"

	"travelapp/database"
	"travelapp/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no listing matches the given id.
var ErrNotFound = errors.New("listing not found")

type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) (string, error)
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	GetAll(ctx context.Context) ([]models.Listing, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type mongoListingRepo struct {
	coll *mongo.Collection
}

// NewMongoListingRepo returns a new ListingRepository instance using MongoDB.
func NewMongoListingRepo() ListingRepository {
	db := database.MongoClient.Database("travelapp")
	return &mongoListingRepo{
		coll: db.Collection("listings"),
	}
}
