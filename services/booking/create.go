package booking

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"clinicbook/models"
	"clinicbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBookingInput is the validated input of the booking transaction.
// UserID comes from the authenticated request context, never the body.
type CreateBookingInput struct {
	UserID         string
	PaymentMethod  string
	PatientDetails *models.PatientDetails
	TreatmentID    string
	ClinicID       string
	DoctorID       string
	Sessions       int
	Date           string
	Time           string
}

// CreateBooking runs the booking transaction: validate, check availability,
// price, create the gateway order, re-check availability and persist the
// Booking and Payment pair atomically. Any failure before commit leaves no
// partial state behind.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.BookingCreatedData, error) {
	logger := utils.GetLogger()

	if in.UserID == "" {
		return nil, NewUnauthorizedError("authentication required to create a booking")
	}
	if missing := missingCreateFields(in); len(missing) > 0 {
		return nil, NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}

	var treatment *models.Treatment
	if in.TreatmentID != "" {
		t, err := s.Treatments.GetByID(ctx, in.TreatmentID)
		if err != nil {
			return nil, NewNotFoundError(fmt.Sprintf("treatment %s not found", in.TreatmentID))
		}
		if t.Status != models.TreatmentStatusBookingOpen {
			return nil, NewConflictError(fmt.Sprintf("treatment %q is not open for booking", t.Name))
		}
		treatment = t
	}

	slot := AvailabilityRequest{
		Date:        in.Date,
		Time:        in.Time,
		ClinicID:    in.ClinicID,
		TreatmentID: in.TreatmentID,
	}
	avail, err := s.CheckAvailability(ctx, slot)
	if err != nil {
		return nil, err
	}
	if !avail.Available {
		return nil, NewConflictError(fmt.Sprintf("the slot on %s at %s is no longer available", in.Date, in.Time))
	}
	cfg := avail.Config

	price := ComputePrice(treatment, cfg, in.Sessions, in.PaymentMethod)
	if price.Subtotal <= 0 || price.Total <= 0 {
		logger.Error("booking priced to zero",
			zap.String("treatmentID", in.TreatmentID),
			zap.Int("sessions", in.Sessions))
		return nil, NewConfigError("booking price resolved to zero; pricing configuration is broken")
	}

	now := time.Now()
	booking := &models.Booking{
		ID:             uuid.New().String(),
		BookingNumber:  newBookingNumber(now),
		TreatmentID:    in.TreatmentID,
		ClinicID:       in.ClinicID,
		DoctorID:       in.DoctorID,
		UserID:         in.UserID,
		PatientDetails: *in.PatientDetails,
		SessionDates: []models.SessionDate{{
			SessionNumber: 1,
			Date:          mustParseDate(in.Date),
			Time:          in.Time,
			Status:        models.SessionStatusPending,
		}},
		SessionsTotal:    in.Sessions,
		SessionStatus:    models.BookingStatusPaymentNotCompleted,
		AmountPerSession: price.BasePrice,
		TotalAmount:      price.Total,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	currency := cfg.Currency
	if currency == "" {
		currency = "INR"
	}

	// Amount in minor currency units.
	amountPaise := int64(math.Round(price.Total * 100))
	order, err := s.Gateway.CreateOrder(ctx, amountPaise, currency, booking.BookingNumber, map[string]interface{}{
		"booking_number": booking.BookingNumber,
		"clinic_id":      in.ClinicID,
		"user_id":        in.UserID,
	})
	if err != nil {
		logger.Error("gateway order creation failed",
			zap.String("bookingNumber", booking.BookingNumber),
			zap.Error(err))
		return nil, NewGatewayError("payment gateway order creation failed, please retry")
	}

	payment := &models.Payment{
		ID:            uuid.New().String(),
		OrderID:       order.ID,
		Status:        models.PaymentStatusPending,
		Method:        in.PaymentMethod,
		Subtotal:      price.Subtotal,
		Tax:           price.Tax,
		CreditCardFee: price.CreditCardFee,
		Total:         price.Total,
		Currency:      currency,
		CreatedAt:     now,
	}
	booking.PaymentID = payment.ID

	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		// Closes the race window between the first check and the write.
		if err := s.recheckCapacity(txCtx, cfg, slot); err != nil {
			return err
		}
		if err := s.Payments.Insert(txCtx, payment); err != nil {
			return err
		}
		if err := s.Bookings.Insert(txCtx, booking); err != nil {
			return err
		}
		return s.Payments.SetBookingRef(txCtx, payment.ID, booking.ID)
	})
	if err != nil {
		if _, ok := AsBookingError(err); ok {
			return nil, err
		}
		logger.Error("booking transaction failed",
			zap.String("bookingID", booking.ID),
			zap.Error(err))
		return nil, fmt.Errorf("booking transaction failed: %w", err)
	}

	if s.Cache != nil {
		if err := s.Cache.InvalidateAvailability(ctx); err != nil {
			logger.Warn("availability cache invalidation failed", zap.Error(err))
		}
	}

	logger.Info("booking created",
		zap.String("bookingID", booking.ID),
		zap.String("bookingNumber", booking.BookingNumber),
		zap.String("orderID", order.ID),
		zap.Float64("total", price.Total))

	return &models.BookingCreatedData{
		Booking: models.BookingSummary{
			ID:            booking.ID,
			BookingNumber: booking.BookingNumber,
			SessionDates:  booking.SessionDates,
			TotalAmount:   booking.TotalAmount,
			Status:        booking.SessionStatus,
		},
		Payment: models.PaymentOrderSummary{
			OrderID:  order.ID,
			Amount:   price.Total,
			Currency: currency,
			Key:      s.Gateway.KeyID(),
		},
		RazorpayOrder: order.Raw,
	}, nil
}

func missingCreateFields(in CreateBookingInput) []string {
	var missing []string
	if in.PaymentMethod == "" {
		missing = append(missing, "payment_method")
	}
	if in.PatientDetails == nil {
		missing = append(missing, "patient_details")
	}
	if in.ClinicID == "" {
		missing = append(missing, "clinic_id")
	}
	if in.Sessions <= 0 {
		missing = append(missing, "sessions")
	}
	if in.Date == "" {
		missing = append(missing, "date")
	}
	if in.Time == "" {
		missing = append(missing, "time")
	}
	return missing
}

// newBookingNumber builds the human-readable booking reference.
func newBookingNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("BK-%s-%s", now.Format("20060102"), suffix)
}

// mustParseDate assumes the date was already format-validated by the
// availability check.
func mustParseDate(date string) time.Time {
	t, _ := time.Parse(dateLayout, date)
	return t
}
