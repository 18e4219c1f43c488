package listing

import (
	"context"
	"errors"

	listingRepo "travelapp/database/repository/listing"
	"travelapp/models"
)

// ListingService manages travel listings.
type ListingService interface {
	Create(ctx context.Context, listing models.Listing) (*models.Listing, error)
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	List(ctx context.Context) ([]models.Listing, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Listing, error)
	Delete(ctx context.Context, id string) error
}

// DefaultListingService implements ListingService.
type DefaultListingService struct {
	Repo listingRepo.ListingRepository
}

func (s *DefaultListingService) Create(ctx context.Context, listing models.Listing) (*models.Listing, error) {
	if listing.Title == "" {
		return nil, errors.New("title is required")
	}
	if listing.Price <= 0 {
		return nil, errors.New("price must be positive")
	}
	if _, err := s.Repo.Create(ctx, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (s *DefaultListingService) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultListingService) List(ctx context.Context) ([]models.Listing, error) {
	return s.Repo.GetAll(ctx)
}

func (s *DefaultListingService) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Listing, error) {
	if err := s.Repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultListingService) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}
