package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypePaymentConfirmation = "email:payment_confirmation"
	TypeBookingConfirmation = "email:booking_confirmation"
)

// BookingConfirmationMaxRetries bounds redelivery of the booking
// confirmation task; the payment confirmation task is never retried.
const BookingConfirmationMaxRetries = 3

// PaymentConfirmationPayload identifies the payment to confirm by email.
type PaymentConfirmationPayload struct {
	PaymentID string `json:"payment_id"`
}

// BookingConfirmationPayload identifies the booking to confirm by email.
type BookingConfirmationPayload struct {
	BookingID string `json:"booking_id"`
}

// Dispatcher schedules confirmation emails for out-of-band delivery.
type Dispatcher interface {
	EnqueuePaymentConfirmation(paymentID string) error
	EnqueueBookingConfirmation(bookingID string) error
}

// AsynqDispatcher enqueues tasks on the shared Redis-backed queue.
type AsynqDispatcher struct {
	Client *asynq.Client
}

func NewDispatcher(client *asynq.Client) *AsynqDispatcher {
	return &AsynqDispatcher{Client: client}
}

func (d *AsynqDispatcher) EnqueuePaymentConfirmation(paymentID string) error {
	b, err := json.Marshal(PaymentConfirmationPayload{PaymentID: paymentID})
	if err != nil {
		return err
	}
	_, err = d.Client.Enqueue(asynq.NewTask(TypePaymentConfirmation, b), asynq.MaxRetry(0))
	return err
}

func (d *AsynqDispatcher) EnqueueBookingConfirmation(bookingID string) error {
	b, err := json.Marshal(BookingConfirmationPayload{BookingID: bookingID})
	if err != nil {
		return err
	}
	_, err = d.Client.Enqueue(asynq.NewTask(TypeBookingConfirmation, b), asynq.MaxRetry(BookingConfirmationMaxRetries))
	return err
}
