package paymentRepo

import (
	"context"

	"clinicbook/models"
)

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	Insert(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)

	// SetBookingRef writes the Payment→Booking back-reference created in the
	// same transaction as the booking itself.
	SetBookingRef(ctx context.Context, paymentID, bookingID string) error

	MarkCompleted(ctx context.Context, id string, completion models.PaymentCompletion) error
	MarkFailed(ctx context.Context, id, reason string) error
}
