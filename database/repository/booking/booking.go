package bookingRepo

import (
	"context"
	"time"

	"clinicbook/models"
)

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Insert(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)

	// CountBookedSessionSlots sums the session-date entries (not bookings)
	// occupying the given slot with status Pending/Confirmed/Rescheduled.
	CountBookedSessionSlots(ctx context.Context, clinicID, treatmentID string, dayStart, dayEnd time.Time, timeOfDay string) (int, error)

	// ListBookedSessionEntries returns the counted entries with booking identity,
	// for the availability response detail.
	ListBookedSessionEntries(ctx context.Context, clinicID, treatmentID string, dayStart, dayEnd time.Time, timeOfDay string) ([]models.SlotBookingDetail, error)

	SetConfirmed(ctx context.Context, id, source string, verifiedAt time.Time) error
	SetCancelled(ctx context.Context, id string, details models.CancellationDetails) error

	// ListStalePending returns bookings stuck in "Payment Not Completed"
	// created before the cutoff.
	ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error)
}
