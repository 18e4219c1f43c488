package models

import "time"

// Payment statuses. A payment starts pending; completed and failed are
// terminal and never reversed.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment is the durable record of one payment attempt against a booking.
// A booking may accumulate several payments across re-attempts; each keeps
// its own provider-facing TxRef. Raw gateway payloads are retained on the
// record for audits.
type Payment struct {
	ID             string                 `bson:"id" json:"id"`
	BookingID      string                 `bson:"booking_id" json:"booking_id"`
	TxRef          string                 `bson:"tx_ref" json:"tx_ref"`                     // unique, immutable after creation
	RefID          string                 `bson:"ref_id,omitempty" json:"ref_id,omitempty"` // provider reconciliation id, set by verify
	Amount         float64                `bson:"amount" json:"amount"`
	Currency       string                 `bson:"currency" json:"currency"`
	Status         string                 `bson:"status" json:"status"`
	CheckoutURL    string                 `bson:"checkout_url,omitempty" json:"checkout_url,omitempty"`
	InitResponse   map[string]interface{} `bson:"init_response,omitempty" json:"init_response,omitempty"`
	VerifyResponse map[string]interface{} `bson:"verify_response,omitempty" json:"verify_response,omitempty"`
	CreatedAt      time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time              `bson:"updated_at" json:"updated_at"`
}
