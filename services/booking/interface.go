package booking

import (
	"context"

	"clinicbook/models"
)

// BookingService is the booking core: availability evaluation, the booking
// and payment transaction, payment-callback reconciliation and the failure
// path.
type BookingService interface {
	CheckAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResult, error)
	CreateBooking(ctx context.Context, in CreateBookingInput) (*models.BookingCreatedData, error)
	VerifyPayment(ctx context.Context, in VerifyInput) *VerifyOutcome
	HandlePaymentFailure(ctx context.Context, bookingID, paymentID, reason string) error
	GetBooking(ctx context.Context, id string) (*models.BookingDetail, error)
	ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error)
}

// CacheInvalidator flushes derived availability state after a commit. The
// cache is never the source of truth, so invalidation failures are logged but
// not fatal.
type CacheInvalidator interface {
	InvalidateAvailability(ctx context.Context) error
}
