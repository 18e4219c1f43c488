package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	bookingRepo "travelapp/database/repository/booking"
	listingRepo "travelapp/database/repository/listing"
	paymentRepo "travelapp/database/repository/payment"
	"travelapp/models"
	"travelapp/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePaymentRepo struct {
	payments map[string]*models.Payment
}

func (r *fakePaymentRepo) Create(ctx context.Context, p *models.Payment) error { return nil }
func (r *fakePaymentRepo) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	if p, ok := r.payments[id]; ok {
		return p, nil
	}
	return nil, paymentRepo.ErrNotFound
}
func (r *fakePaymentRepo) GetByTxRef(ctx context.Context, txRef string) (*models.Payment, error) {
	return nil, paymentRepo.ErrNotFound
}
func (r *fakePaymentRepo) FindPending(ctx context.Context, bookingID string, amount float64) (*models.Payment, error) {
	return nil, nil
}
func (r *fakePaymentRepo) Update(ctx context.Context, txRef string, fields map[string]interface{}) error {
	return nil
}
func (r *fakePaymentRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeBookingRepo struct {
	bookings map[string]*models.Booking
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *models.Booking) (string, error) {
	return b.ID, nil
}
func (r *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	if b, ok := r.bookings[id]; ok {
		return b, nil
	}
	return nil, bookingRepo.ErrNotFound
}
func (r *fakeBookingRepo) GetAll(ctx context.Context) ([]models.Booking, error) { return nil, nil }
func (r *fakeBookingRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return nil
}
func (r *fakeBookingRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeListingRepo struct {
	listings map[string]*models.Listing
}

func (r *fakeListingRepo) Create(ctx context.Context, l *models.Listing) (string, error) {
	return l.ID, nil
}
func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	if l, ok := r.listings[id]; ok {
		return l, nil
	}
	return nil, listingRepo.ErrNotFound
}
func (r *fakeListingRepo) GetAll(ctx context.Context) ([]models.Listing, error) { return nil, nil }
func (r *fakeListingRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return nil
}
func (r *fakeListingRepo) Delete(ctx context.Context, id string) error { return nil }

type sentMail struct {
	subject string
	body    string
	from    string
	to      []string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(subject, body, from string, to []string) error {
	m.sent = append(m.sent, sentMail{subject: subject, body: body, from: from, to: to})
	return m.err
}

func newTestWorker() (*EmailWorker, *fakeMailer) {
	mailer := &fakeMailer{}
	w := &EmailWorker{
		Payments: &fakePaymentRepo{payments: map[string]*models.Payment{
			"p1": {
				ID:        "p1",
				BookingID: "b1",
				TxRef:     "booking-b1-abc",
				Amount:    150,
				Currency:  "ETB",
				Status:    models.PaymentStatusCompleted,
			},
		}},
		Bookings: &fakeBookingRepo{bookings: map[string]*models.Booking{
			"b1": {
				ID:        "b1",
				ListingID: "l1",
				Email:     "guest@example.com",
				FirstName: "J",
				LastName:  "D",
				StartDate: "2026-09-01",
				EndDate:   "2026-09-05",
			},
		}},
		Listings: &fakeListingRepo{listings: map[string]*models.Listing{
			"l1": {ID: "l1", Title: "Lakeside Cabin", Price: 90},
		}},
		Mailer: mailer,
		Logger: zap.NewNop(),
	}
	return w, mailer
}

func paymentTask(t *testing.T, paymentID string) *asynq.Task {
	t.Helper()
	b, err := json.Marshal(tasks.PaymentConfirmationPayload{PaymentID: paymentID})
	require.NoError(t, err)
	return asynq.NewTask(tasks.TypePaymentConfirmation, b)
}

func bookingTask(t *testing.T, bookingID string) *asynq.Task {
	t.Helper()
	b, err := json.Marshal(tasks.BookingConfirmationPayload{BookingID: bookingID})
	require.NoError(t, err)
	return asynq.NewTask(tasks.TypeBookingConfirmation, b)
}

func TestPaymentConfirmationEmail(t *testing.T) {
	w, mailer := newTestWorker()

	err := w.HandlePaymentConfirmation(context.Background(), paymentTask(t, "p1"))
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	mail := mailer.sent[0]
	assert.Equal(t, []string{"guest@example.com"}, mail.to)
	assert.Equal(t, "Booking b1 payment received", mail.subject)
	assert.Contains(t, mail.body, "150.00 ETB")
	assert.Contains(t, mail.body, "Lakeside Cabin")
	assert.Contains(t, mail.body, "booking-b1-abc")
	assert.Contains(t, mail.body, "completed")
}

func TestPaymentConfirmationRecipientFallsBackToAccountEmail(t *testing.T) {
	w, mailer := newTestWorker()
	w.Bookings = &fakeBookingRepo{bookings: map[string]*models.Booking{
		"b1": {ID: "b1", ListingID: "l1", AccountEmail: "account@example.com"},
	}}

	err := w.HandlePaymentConfirmation(context.Background(), paymentTask(t, "p1"))
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"account@example.com"}, mailer.sent[0].to)
}

func TestPaymentConfirmationNoRecipientIsNoOp(t *testing.T) {
	w, mailer := newTestWorker()
	w.Bookings = &fakeBookingRepo{bookings: map[string]*models.Booking{
		"b1": {ID: "b1", ListingID: "l1"},
	}}

	err := w.HandlePaymentConfirmation(context.Background(), paymentTask(t, "p1"))
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestPaymentConfirmationMissingPaymentIsNoOp(t *testing.T) {
	w, mailer := newTestWorker()

	err := w.HandlePaymentConfirmation(context.Background(), paymentTask(t, "missing"))
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestPaymentConfirmationSendFailureNotRetried(t *testing.T) {
	w, mailer := newTestWorker()
	mailer.err = errors.New("smtp down")

	err := w.HandlePaymentConfirmation(context.Background(), paymentTask(t, "p1"))
	assert.NoError(t, err)
}

func TestBookingConfirmationEmail(t *testing.T) {
	w, mailer := newTestWorker()

	err := w.HandleBookingConfirmation(context.Background(), bookingTask(t, "b1"))
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	mail := mailer.sent[0]
	assert.Equal(t, "Booking Confirmation", mail.subject)
	assert.Contains(t, mail.body, "Lakeside Cabin")
	assert.Contains(t, mail.body, "2026-09-01")
	assert.Contains(t, mail.body, "2026-09-05")
}

func TestBookingConfirmationMissingBookingSkipsRetry(t *testing.T) {
	w, mailer := newTestWorker()

	err := w.HandleBookingConfirmation(context.Background(), bookingTask(t, "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, mailer.sent)
}

func TestBookingConfirmationSendFailureIsRetried(t *testing.T) {
	w, mailer := newTestWorker()
	mailer.err = errors.New("smtp down")

	err := w.HandleBookingConfirmation(context.Background(), bookingTask(t, "b1"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestBookingConfirmationNoRecipientIsNoOp(t *testing.T) {
	w, mailer := newTestWorker()
	w.Bookings = &fakeBookingRepo{bookings: map[string]*models.Booking{
		"b1": {ID: "b1", ListingID: "l1"},
	}}

	err := w.HandleBookingConfirmation(context.Background(), bookingTask(t, "b1"))
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}
