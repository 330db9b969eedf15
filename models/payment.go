package models

import "time"

// Payment states.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment methods accepted at booking creation.
const (
	PaymentMethodCard = "card"
	PaymentMethodUPI  = "upi"
)

// Payment is the 1:1 payment record behind a booking. The gateway order id is
// set at creation; the gateway payment id and signature only appear once the
// callback has been verified. A payment reaches "completed" at most once.
type Payment struct {
	ID        string `bson:"id" json:"id"`
	BookingID string `bson:"booking_id" json:"booking_id"`

	OrderID          string `bson:"order_id" json:"order_id"`
	GatewayPaymentID string `bson:"gateway_payment_id,omitempty" json:"gateway_payment_id,omitempty"`
	Signature        string `bson:"signature,omitempty" json:"-"`

	Status string `bson:"status" json:"status"`
	Method string `bson:"method" json:"method"`

	// Breakdown computed once at creation, never recomputed.
	Subtotal      float64 `bson:"subtotal" json:"subtotal"`
	Tax           float64 `bson:"tax" json:"tax"`
	CreditCardFee float64 `bson:"credit_card_fee" json:"creditCardFee"`
	Total         float64 `bson:"total" json:"total"`
	Currency      string  `bson:"currency" json:"currency"`

	FailureReason string `bson:"failure_reason,omitempty" json:"failureReason,omitempty"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	VerifiedAt  *time.Time `bson:"verified_at,omitempty" json:"verified_at,omitempty"`

	// Callback audit trail.
	VerificationIP        string `bson:"verification_ip,omitempty" json:"-"`
	VerificationUserAgent string `bson:"verification_user_agent,omitempty" json:"-"`
}

// PaymentCompletion carries the verified callback fields applied when a
// payment transitions to completed.
type PaymentCompletion struct {
	GatewayPaymentID string
	Signature        string
	CompletedAt      time.Time
	VerifiedAt       time.Time
	IP               string
	UserAgent        string
}
