package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	bookingRepo "travelapp/database/repository/booking"
	listingRepo "travelapp/database/repository/listing"
	paymentRepo "travelapp/database/repository/payment"
	"travelapp/models"
	"travelapp/services/tasks"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCurrency = "ETB"

// DefaultPaymentService implements PaymentService.
type DefaultPaymentService struct {
	Payments   paymentRepo.PaymentRepository
	Bookings   bookingRepo.BookingRepository
	Listings   listingRepo.ListingRepository
	Gateway    GatewayClient
	Dispatcher tasks.Dispatcher
	Logger     *zap.Logger
}

// Initiate resolves the booking, amount and contact fields, reuses an open
// checkout when one exists, and otherwise creates a pending payment record
// and opens a checkout with the provider. The record is created before the
// gateway call so a failed call can be persisted against it.
func (s *DefaultPaymentService) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	booking, err := s.Bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: req.BookingID}
		}
		return nil, err
	}

	amount, err := s.resolveAmount(ctx, req, booking)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	email := firstNonEmpty(req.Email, booking.Email)
	firstName := firstNonEmpty(req.FirstName, booking.FirstName)
	lastName := firstNonEmpty(req.LastName, booking.LastName)
	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if firstName == "" {
		missing = append(missing, "first_name")
	}
	if lastName == "" {
		missing = append(missing, "last_name")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Message: "missing fields: " + strings.Join(missing, ", ")}
	}

	// Reuse an open checkout before creating a duplicate provider
	// transaction. The lookup is best-effort: concurrent retries may race
	// past it, but the unique tx_ref index keeps references distinct.
	// A pending record without a checkout URL is never reused.
	existing, err := s.Payments.FindPending(ctx, booking.ID, amount)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.CheckoutURL != "" {
		return &InitiateResult{CheckoutURL: existing.CheckoutURL, TxRef: existing.TxRef, Deduped: true}, nil
	}

	txRef := newTxRef(booking.ID)
	pmt := &models.Payment{
		BookingID: booking.ID,
		TxRef:     txRef,
		Amount:    amount,
		Currency:  currency,
		Status:    models.PaymentStatusPending,
	}
	if err := s.Payments.Create(ctx, pmt); err != nil {
		return nil, err
	}

	res, err := s.Gateway.Initialize(ctx, InitRequest{
		Amount:      amount,
		Currency:    currency,
		Email:       email,
		FirstName:   firstName,
		LastName:    lastName,
		TxRef:       txRef,
		CallbackURL: req.CallbackURL,
		ReturnURL:   req.ReturnURL,
		Title:       fmt.Sprintf("Booking %s", booking.ID),
		Description: "Booking payment",
	})
	if err != nil {
		var unavail *GatewayUnavailableError
		if errors.As(err, &unavail) {
			s.failPayment(ctx, txRef, map[string]interface{}{"error": unavail.Error()})
			return nil, &GatewayError{Message: "failed to initiate payment: " + unavail.Error()}
		}
		// Configuration errors propagate as-is; the record stays pending.
		return nil, err
	}

	if !strings.EqualFold(res.ProviderStatus, "success") {
		s.failPayment(ctx, txRef, res.Payload)
		return nil, &GatewayError{Message: "payment initialization failed", Payload: res.Payload}
	}
	if res.CheckoutURL == "" {
		s.failPayment(ctx, txRef, res.Payload)
		return nil, &GatewayError{Message: "provider did not return a checkout URL", Payload: res.Payload}
	}

	if err := s.Payments.Update(ctx, txRef, map[string]interface{}{
		"init_response": res.Payload,
		"checkout_url":  res.CheckoutURL,
	}); err != nil {
		return nil, err
	}

	return &InitiateResult{CheckoutURL: res.CheckoutURL, TxRef: txRef}, nil
}

// Verify reconciles a payment's status with the provider and, on a newly
// confirmed completion, schedules the confirmation email. A network failure
// leaves the record untouched so verification can be retried.
func (s *DefaultPaymentService) Verify(ctx context.Context, txRef string) (*VerifyView, error) {
	pmt, err := s.Payments.GetByTxRef(ctx, txRef)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "payment", ID: txRef}
		}
		return nil, err
	}

	res, err := s.Gateway.Verify(ctx, txRef)
	if err != nil {
		var unavail *GatewayUnavailableError
		if errors.As(err, &unavail) {
			return nil, &GatewayError{Message: "verify request failed: " + unavail.Error()}
		}
		return nil, err
	}

	newStatus := models.PaymentStatusPending
	switch strings.ToLower(res.Status) {
	case "success":
		newStatus = models.PaymentStatusCompleted
	case "failed":
		newStatus = models.PaymentStatusFailed
	}
	// An ambiguous provider answer never demotes a terminal record.
	if newStatus == models.PaymentStatusPending && pmt.Status != models.PaymentStatusPending {
		newStatus = pmt.Status
	}

	fields := map[string]interface{}{
		"status":          newStatus,
		"verify_response": res.Payload,
	}
	refID := pmt.RefID
	if res.RefID != "" {
		// Only overwrite with a present value; an absent reference never
		// clears a stored one.
		refID = res.RefID
		fields["ref_id"] = res.RefID
	}
	if err := s.Payments.Update(ctx, txRef, fields); err != nil {
		return nil, err
	}

	if newStatus == models.PaymentStatusCompleted {
		// Best-effort: a queue outage must not fail the verification.
		if err := s.Dispatcher.EnqueuePaymentConfirmation(pmt.ID); err != nil {
			s.Logger.Warn("failed to enqueue payment confirmation email",
				zap.String("payment_id", pmt.ID), zap.Error(err))
		}
	}

	return &VerifyView{
		PaymentID: pmt.ID,
		TxRef:     pmt.TxRef,
		Status:    newStatus,
		RefID:     refID,
		Verify:    res.Payload,
	}, nil
}

// failPayment marks the record failed and stores the init payload for audit.
func (s *DefaultPaymentService) failPayment(ctx context.Context, txRef string, payload map[string]interface{}) {
	if err := s.Payments.Update(ctx, txRef, map[string]interface{}{
		"status":        models.PaymentStatusFailed,
		"init_response": payload,
	}); err != nil {
		s.Logger.Error("failed to record payment failure",
			zap.String("tx_ref", txRef), zap.Error(err))
	}
}

// resolveAmount applies the precedence request override -> booking price ->
// listing price.
func (s *DefaultPaymentService) resolveAmount(ctx context.Context, req InitiateRequest, booking *models.Booking) (float64, error) {
	if req.Amount != nil {
		amount, err := parseAmount(req.Amount)
		if err != nil {
			return 0, &ValidationError{Message: "invalid amount"}
		}
		if amount <= 0 {
			return 0, &ValidationError{Message: "amount must be positive"}
		}
		return amount, nil
	}
	if booking.Price > 0 {
		return booking.Price, nil
	}
	if listing, err := s.Listings.GetByID(ctx, booking.ListingID); err == nil && listing.Price > 0 {
		return listing.Price, nil
	}
	return 0, &ValidationError{Message: "amount is required"}
}

func parseAmount(v interface{}) (float64, error) {
	switch a := v.(type) {
	case float64:
		return a, nil
	case string:
		return strconv.ParseFloat(a, 64)
	case json.Number:
		return a.Float64()
	default:
		return 0, fmt.Errorf("unsupported amount type %T", v)
	}
}

// newTxRef builds the provider-facing reference: booking id plus a short
// random suffix.
func newTxRef(bookingID string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:10]
	return fmt.Sprintf("booking-%s-%s", bookingID, suffix)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
