package booking

import (
	"context"
	"time"

	bookingRepo "clinicbook/database/repository/booking"
	paymentRepo "clinicbook/database/repository/payment"
	"clinicbook/models"
	"clinicbook/utils"

	"go.uber.org/zap"
)

// cancellationReasonPayment is the fixed cancellation reason for the payment
// failure path.
const cancellationReasonPayment = "Payment Issue"

// HandlePaymentFailure cancels a booking whose payment did not go through.
// The writes are best-effort and independent: this path is only reached when
// the happy-path transaction never committed, so there is no shared state to
// protect. Absent records are tolerated.
func (s *DefaultBookingService) HandlePaymentFailure(ctx context.Context, bookingID, paymentID, reason string) error {
	logger := utils.GetLogger()

	if bookingID == "" {
		return NewValidationError("booking_id is required")
	}
	if reason == "" {
		reason = "payment failed"
	}

	bk, err := s.Bookings.GetByID(ctx, bookingID)
	switch {
	case err == bookingRepo.ErrNotFound:
		logger.Warn("payment failure reported for unknown booking", zap.String("bookingID", bookingID))
	case err != nil:
		logger.Error("failed to load booking for failure handling", zap.Error(err))
	default:
		details := models.CancellationDetails{
			CancelledAt:    time.Now(),
			CancelledBy:    bk.UserID,
			Reason:         cancellationReasonPayment,
			RefundEligible: false,
		}
		if err := s.Bookings.SetCancelled(ctx, bk.ID, details); err != nil {
			logger.Error("failed to cancel booking after payment failure",
				zap.String("bookingID", bk.ID), zap.Error(err))
		}
		if paymentID == "" {
			paymentID = bk.PaymentID
		}
	}

	if paymentID != "" {
		if err := s.Payments.MarkFailed(ctx, paymentID, reason); err != nil {
			if err == paymentRepo.ErrNotFound {
				logger.Warn("payment failure reported for unknown payment", zap.String("paymentID", paymentID))
			} else {
				logger.Error("failed to mark payment failed",
					zap.String("paymentID", paymentID), zap.Error(err))
			}
		}
	}

	if s.Cache != nil {
		if err := s.Cache.InvalidateAvailability(ctx); err != nil {
			logger.Warn("availability cache invalidation failed", zap.Error(err))
		}
	}

	logger.Info("payment failure recorded",
		zap.String("bookingID", bookingID),
		zap.String("reason", reason))
	return nil
}
