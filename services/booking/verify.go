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

// Reconciler reason codes. Every failure branch resolves to one of these so
// clients can branch without parsing free text.
const (
	ReasonMissingFields      = "missing-fields"
	ReasonInvalidSignature   = "invalid-signature"
	ReasonBookingNotFound    = "booking-not-found"
	ReasonPaymentNotFound    = "payment-not-found"
	ReasonOrderIDMismatch    = "order-id-mismatch"
	ReasonDatabaseError      = "database-error"
	ReasonVerificationFailed = "verification-failed"
)

// VerifyInput carries the gateway callback parameters plus the request audit
// fields.
type VerifyInput struct {
	Platform  string
	BookingID string
	OrderID   string
	PaymentID string
	Signature string
	ClientIP  string
	UserAgent string
}

// VerifyOutcome is the settled result of a callback. The reconciler never
// returns an error: every branch, including replays and tampered signatures,
// resolves to an outcome the handler turns into a redirect or JSON response.
type VerifyOutcome struct {
	OK               bool
	AlreadyProcessed bool
	Reason           string
	MissingFields    []string
	Message          string

	BookingID     string
	PaymentID     string
	SessionStatus string
	PaymentStatus string
	Amount        float64
}

// NormalizePlatform coerces unknown platform discriminators to "web".
func NormalizePlatform(platform string) string {
	switch platform {
	case models.BookingSourceApp, models.BookingSourceAdmin:
		return platform
	default:
		return models.BookingSourceWeb
	}
}

// VerifyPayment reconciles a gateway callback into booking state, exactly
// once. Gateways retry callbacks and users double-trigger redirects, so a
// callback for an already-completed payment settles as a duplicate, not an
// error.
func (s *DefaultBookingService) VerifyPayment(ctx context.Context, in VerifyInput) (outcome *VerifyOutcome) {
	logger := utils.GetLogger()

	// The reconciler must never blow up the callback route.
	defer func() {
		if r := recover(); r != nil {
			logger.Error("payment verification panic", zap.Any("error", r))
			outcome = &VerifyOutcome{
				Reason:    ReasonVerificationFailed,
				Message:   "payment verification failed unexpectedly",
				BookingID: in.BookingID,
			}
		}
	}()

	if missing := missingVerifyFields(in); len(missing) > 0 {
		return &VerifyOutcome{
			Reason:        ReasonMissingFields,
			MissingFields: missing,
			Message:       "payment callback is missing required fields",
			BookingID:     in.BookingID,
		}
	}

	if !s.Gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		logger.Warn("payment callback signature mismatch",
			zap.String("bookingID", in.BookingID),
			zap.String("orderID", in.OrderID))
		return &VerifyOutcome{
			Reason:    ReasonInvalidSignature,
			Message:   "payment signature verification failed",
			BookingID: in.BookingID,
		}
	}

	bk, err := s.Bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		if err == bookingRepo.ErrNotFound {
			return &VerifyOutcome{
				Reason:    ReasonBookingNotFound,
				Message:   "booking not found",
				BookingID: in.BookingID,
			}
		}
		logger.Error("failed to load booking for verification", zap.Error(err))
		return &VerifyOutcome{Reason: ReasonDatabaseError, Message: "could not load booking", BookingID: in.BookingID}
	}

	payment, err := s.Payments.GetByID(ctx, bk.PaymentID)
	if err != nil {
		if err == paymentRepo.ErrNotFound {
			return &VerifyOutcome{
				Reason:    ReasonPaymentNotFound,
				Message:   "payment record not found",
				BookingID: in.BookingID,
			}
		}
		logger.Error("failed to load payment for verification", zap.Error(err))
		return &VerifyOutcome{Reason: ReasonDatabaseError, Message: "could not load payment", BookingID: in.BookingID}
	}

	// Idempotency guard: a completed payment with a stored gateway payment id
	// means this callback is a replay. Respond with the stored details.
	if payment.Status == models.PaymentStatusCompleted && payment.GatewayPaymentID != "" {
		logger.Info("duplicate payment callback ignored",
			zap.String("bookingID", bk.ID),
			zap.String("paymentID", payment.ID))
		return &VerifyOutcome{
			OK:               true,
			AlreadyProcessed: true,
			Message:          "payment already processed",
			BookingID:        bk.ID,
			PaymentID:        payment.ID,
			SessionStatus:    bk.SessionStatus,
			PaymentStatus:    payment.Status,
			Amount:           payment.Total,
		}
	}

	if payment.OrderID != in.OrderID {
		logger.Warn("payment callback order id mismatch",
			zap.String("bookingID", bk.ID),
			zap.String("stored", payment.OrderID),
			zap.String("received", in.OrderID))
		return &VerifyOutcome{
			Reason:    ReasonOrderIDMismatch,
			Message:   "callback order id does not match the payment record",
			BookingID: bk.ID,
		}
	}

	now := time.Now()
	platform := NormalizePlatform(in.Platform)
	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Payments.MarkCompleted(txCtx, payment.ID, models.PaymentCompletion{
			GatewayPaymentID: in.PaymentID,
			Signature:        in.Signature,
			CompletedAt:      now,
			VerifiedAt:       now,
			IP:               in.ClientIP,
			UserAgent:        in.UserAgent,
		}); err != nil {
			return err
		}
		return s.Bookings.SetConfirmed(txCtx, bk.ID, platform, now)
	})
	if err != nil {
		logger.Error("payment verification transaction failed",
			zap.String("bookingID", bk.ID),
			zap.Error(err))
		return &VerifyOutcome{Reason: ReasonDatabaseError, Message: "could not settle the payment", BookingID: bk.ID}
	}

	if s.Cache != nil {
		if err := s.Cache.InvalidateAvailability(ctx); err != nil {
			logger.Warn("availability cache invalidation failed", zap.Error(err))
		}
	}

	logger.Info("payment verified, booking confirmed",
		zap.String("bookingID", bk.ID),
		zap.String("paymentID", payment.ID),
		zap.String("platform", platform))

	return &VerifyOutcome{
		OK:            true,
		Message:       "payment verified",
		BookingID:     bk.ID,
		PaymentID:     payment.ID,
		SessionStatus: models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusCompleted,
		Amount:        payment.Total,
	}
}

func missingVerifyFields(in VerifyInput) []string {
	var missing []string
	if in.OrderID == "" {
		missing = append(missing, "razorpay_order_id")
	}
	if in.PaymentID == "" {
		missing = append(missing, "razorpay_payment_id")
	}
	if in.Signature == "" {
		missing = append(missing, "razorpay_signature")
	}
	if in.BookingID == "" {
		missing = append(missing, "booking_id")
	}
	return missing
}
