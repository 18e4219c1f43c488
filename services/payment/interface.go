package payment

import "context"

// PaymentService orchestrates payment initiation and verification against
// the external gateway.
type PaymentService interface {
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	Verify(ctx context.Context, txRef string) (*VerifyView, error)
}

// InitiateRequest is the inbound initiation payload. Amount accepts a JSON
// number or a numeric string; when absent, the booking's price and then the
// listing's price are used.
type InitiateRequest struct {
	BookingID   string      `json:"booking_id"`
	Amount      interface{} `json:"amount,omitempty"`
	Currency    string      `json:"currency,omitempty"`
	Email       string      `json:"email,omitempty"`
	FirstName   string      `json:"first_name,omitempty"`
	LastName    string      `json:"last_name,omitempty"`
	ReturnURL   string      `json:"return_url,omitempty"`
	CallbackURL string      `json:"callback_url,omitempty"`
}

// InitiateResult is returned to the client. Deduped marks reuse of an
// existing pending checkout instead of a fresh provider transaction.
type InitiateResult struct {
	CheckoutURL string `json:"checkout_url"`
	TxRef       string `json:"tx_ref"`
	Deduped     bool   `json:"-"`
}

// VerifyView is the verify response: the payment's current state plus the
// raw provider payload.
type VerifyView struct {
	PaymentID string                 `json:"payment_id"`
	TxRef     string                 `json:"tx_ref"`
	Status    string                 `json:"status"`
	RefID     string                 `json:"ref_id,omitempty"`
	Verify    map[string]interface{} `json:"verify"`
}
