package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"travelapp/config"
	bookingRepo "travelapp/database/repository/booking"
	listingRepo "travelapp/database/repository/listing"
	paymentRepo "travelapp/database/repository/payment"
	"travelapp/models"
	"travelapp/services/tasks"
	"travelapp/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// bookingConfirmationRetryDelay is the fixed backoff between redeliveries
// of the booking confirmation task.
const bookingConfirmationRetryDelay = 10 * time.Second

// EmailWorker drains confirmation email tasks from the Redis queue.
type EmailWorker struct {
	Payments paymentRepo.PaymentRepository
	Bookings bookingRepo.BookingRepository
	Listings listingRepo.ListingRepository
	Mailer   utils.Mailer
	Logger   *zap.Logger
}

// InitEmailWorker runs the async worker in background.
func InitEmailWorker(w *EmailWorker) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return bookingConfirmationRetryDelay
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypePaymentConfirmation, w.HandlePaymentConfirmation)
	mux.HandleFunc(tasks.TypeBookingConfirmation, w.HandleBookingConfirmation)

	go func() {
		w.Logger.Info("starting email worker")
		if err := srv.Run(mux); err != nil {
			w.Logger.Sugar().Fatalf("email worker failed to start: %v", err)
		}
	}()
}

// HandlePaymentConfirmation sends the payment-received email. The send is
// fire-and-forget: any failure is logged and the task completes without
// retrying.
func (w *EmailWorker) HandlePaymentConfirmation(ctx context.Context, task *asynq.Task) error {
	var p tasks.PaymentConfirmationPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		w.Logger.Error("payment confirmation: invalid payload", zap.Error(err))
		return nil
	}

	pmt, err := w.Payments.GetByID(ctx, p.PaymentID)
	if err != nil {
		w.Logger.Warn("payment confirmation: payment not found",
			zap.String("payment_id", p.PaymentID), zap.Error(err))
		return nil
	}
	booking, err := w.Bookings.GetByID(ctx, pmt.BookingID)
	if err != nil {
		w.Logger.Warn("payment confirmation: booking not found",
			zap.String("booking_id", pmt.BookingID), zap.Error(err))
		return nil
	}

	recipient := recipientFor(booking)
	if recipient == "" {
		w.Logger.Info("payment confirmation: no recipient, skipping",
			zap.String("booking_id", booking.ID))
		return nil
	}

	subject := fmt.Sprintf("Booking %s payment received", booking.ID)
	body := paymentConfirmationBody(pmt, booking, w.listingTitle(ctx, booking.ListingID))

	if err := w.Mailer.Send(subject, body, config.AppConfig.DefaultFromEmail, []string{recipient}); err != nil {
		w.Logger.Error("payment confirmation: send failed",
			zap.String("payment_id", pmt.ID), zap.Error(err))
	}
	return nil
}

// HandleBookingConfirmation sends the booking-received email. Transport
// failures are returned so asynq retries up to the task's max retry count;
// a missing booking is terminal and never retried.
func (w *EmailWorker) HandleBookingConfirmation(ctx context.Context, task *asynq.Task) error {
	var p tasks.BookingConfirmationPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("invalid booking confirmation payload: %v: %w", err, asynq.SkipRetry)
	}

	booking, err := w.Bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		// Retrying cannot make a deleted booking appear.
		return fmt.Errorf("booking %s not found: %v: %w", p.BookingID, err, asynq.SkipRetry)
	}

	recipient := recipientFor(booking)
	if recipient == "" {
		w.Logger.Info("booking confirmation: no recipient email",
			zap.String("booking_id", booking.ID))
		return nil
	}

	body := bookingConfirmationBody(booking, w.listingTitle(ctx, booking.ListingID))
	return w.Mailer.Send("Booking Confirmation", body, config.AppConfig.DefaultFromEmail, []string{recipient})
}

func (w *EmailWorker) listingTitle(ctx context.Context, listingID string) string {
	listing, err := w.Listings.GetByID(ctx, listingID)
	if err != nil {
		return ""
	}
	return listing.Title
}

// recipientFor resolves where to send a confirmation: the booking's own
// contact address first, then the linked account's address.
func recipientFor(booking *models.Booking) string {
	for _, addr := range []string{booking.Email, booking.AccountEmail} {
		if addr != "" {
			return addr
		}
	}
	return ""
}

func paymentConfirmationBody(pmt *models.Payment, booking *models.Booking, listingTitle string) string {
	return strings.TrimSpace(fmt.Sprintf(
		"Hello %s %s,\n\n"+
			"We have received your payment of %.2f %s for booking %s (%s).\n\n"+
			"Transaction ref: %s\nStatus: %s\n\nThank you!",
		booking.FirstName, booking.LastName,
		pmt.Amount, pmt.Currency, booking.ID, listingTitle,
		pmt.TxRef, pmt.Status))
}

func bookingConfirmationBody(booking *models.Booking, listingTitle string) string {
	lines := []string{
		"Hello,",
		"",
		fmt.Sprintf("Your booking %s has been received.", booking.ID),
		fmt.Sprintf("Listing: %s", listingTitle),
		fmt.Sprintf("Check-in: %s", booking.StartDate),
		fmt.Sprintf("Check-out: %s", booking.EndDate),
		"",
		"Thanks for choosing us!",
	}
	return strings.Join(lines, "\n")
}
