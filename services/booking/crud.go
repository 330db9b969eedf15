package booking

import (
	"context"
	"fmt"

	bookingRepo "clinicbook/database/repository/booking"
	"clinicbook/models"
	"clinicbook/utils"

	"go.uber.org/zap"
)

// GetBooking fetches one booking with its clinic, treatment and payment
// populated. Population misses are logged and tolerated; the booking itself
// must exist.
func (s *DefaultBookingService) GetBooking(ctx context.Context, id string) (*models.BookingDetail, error) {
	bk, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		if err == bookingRepo.ErrNotFound {
			return nil, NewNotFoundError(fmt.Sprintf("booking %s not found", id))
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	logger := utils.GetLogger()
	detail := &models.BookingDetail{Booking: *bk}

	if clinic, err := s.Clinics.GetByID(ctx, bk.ClinicID); err == nil {
		detail.Clinic = clinic
	} else {
		logger.Warn("could not populate clinic", zap.String("clinicID", bk.ClinicID), zap.Error(err))
	}
	if bk.TreatmentID != "" {
		if treatment, err := s.Treatments.GetByID(ctx, bk.TreatmentID); err == nil {
			detail.Treatment = treatment
		} else {
			logger.Warn("could not populate treatment", zap.String("treatmentID", bk.TreatmentID), zap.Error(err))
		}
	}
	if bk.PaymentID != "" {
		if payment, err := s.Payments.GetByID(ctx, bk.PaymentID); err == nil {
			detail.Payment = payment
		} else {
			logger.Warn("could not populate payment", zap.String("paymentID", bk.PaymentID), zap.Error(err))
		}
	}

	return detail, nil
}

// ListUserBookings returns the user's bookings, newest first.
func (s *DefaultBookingService) ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	if userID == "" {
		return nil, NewUnauthorizedError("authentication required")
	}
	bookings, err := s.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}
