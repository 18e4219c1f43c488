package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "travelapp/database/repository/booking"
	listingRepo "travelapp/database/repository/listing"
	"travelapp/models"
	"travelapp/services/tasks"

	"go.uber.org/zap"
)

// BookingService manages bookings against listings.
type BookingService interface {
	Create(ctx context.Context, booking models.Booking) (*models.Booking, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context) ([]models.Booking, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Booking, error)
	Delete(ctx context.Context, id string) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo       bookingRepo.BookingRepository
	Listings   listingRepo.ListingRepository
	Dispatcher tasks.Dispatcher
	Logger     *zap.Logger
}

func (s *DefaultBookingService) Create(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	if booking.GuestName == "" {
		return nil, errors.New("guest_name is required")
	}
	if booking.StartDate == "" || booking.EndDate == "" {
		return nil, errors.New("start_date and end_date are required")
	}
	if _, err := s.Listings.GetByID(ctx, booking.ListingID); err != nil {
		if errors.Is(err, listingRepo.ErrNotFound) {
			return nil, fmt.Errorf("listing %q not found", booking.ListingID)
		}
		return nil, err
	}

	if _, err := s.Repo.Create(ctx, &booking); err != nil {
		return nil, err
	}

	// The confirmation email is best-effort; a queue outage must not fail
	// the booking.
	if err := s.Dispatcher.EnqueueBookingConfirmation(booking.ID); err != nil {
		s.Logger.Warn("failed to enqueue booking confirmation email",
			zap.String("booking_id", booking.ID), zap.Error(err))
	}

	return &booking, nil
}

func (s *DefaultBookingService) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultBookingService) List(ctx context.Context) ([]models.Booking, error) {
	return s.Repo.GetAll(ctx)
}

func (s *DefaultBookingService) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Booking, error) {
	if err := s.Repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultBookingService) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}
