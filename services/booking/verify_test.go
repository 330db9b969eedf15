package booking

import (
	"context"
	"testing"
	"time"

	"clinicbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedPendingPayment wires a booking awaiting its payment callback.
func seedPendingPayment(bookings *fakeBookingRepo, payments *fakePaymentRepo, bookingID, orderID string) (*models.Booking, *models.Payment) {
	bk := seedBooking(bookings, bookingID, "clinic-1", "tr-1", "2024-06-01", "10:00", models.BookingStatusPaymentNotCompleted, models.SessionStatusPending)
	p := &models.Payment{
		ID:        "pay-" + bookingID,
		BookingID: bookingID,
		OrderID:   orderID,
		Status:    models.PaymentStatusPending,
		Method:    models.PaymentMethodUPI,
		Subtotal:  2000,
		Tax:       200,
		Total:     2200,
		Currency:  "INR",
		CreatedAt: time.Now(),
	}
	payments.payments[p.ID] = p
	bk.PaymentID = p.ID
	return bk, p
}

func validVerifyInput(bookingID, orderID string) VerifyInput {
	return VerifyInput{
		Platform:  "web",
		BookingID: bookingID,
		OrderID:   orderID,
		PaymentID: "pay_gw_123",
		Signature: signFake(orderID, "pay_gw_123"),
		ClientIP:  "203.0.113.7",
		UserAgent: "test-agent/1.0",
	}
}

func TestVerifyPaymentMissingFields(t *testing.T) {
	svc, _, _, _, _, _, _ := testService()

	out := svc.VerifyPayment(context.Background(), VerifyInput{BookingID: "bk-1"})

	assert.False(t, out.OK)
	assert.Equal(t, ReasonMissingFields, out.Reason)
	assert.ElementsMatch(t, []string{"razorpay_order_id", "razorpay_payment_id", "razorpay_signature"}, out.MissingFields)
	assert.Equal(t, "bk-1", out.BookingID)
}

func TestVerifyPaymentInvalidSignature(t *testing.T) {
	svc, bookings, payments, _, _, _, _ := testService()
	bk, _ := seedPendingPayment(bookings, payments, "bk-1", "order_1")

	in := validVerifyInput("bk-1", "order_1")
	in.Signature = "forged"
	out := svc.VerifyPayment(context.Background(), in)

	assert.False(t, out.OK)
	assert.Equal(t, ReasonInvalidSignature, out.Reason)

	// A tampered callback must not touch booking state.
	assert.Equal(t, models.BookingStatusPaymentNotCompleted, bookings.bookings[bk.ID].SessionStatus)
	assert.Equal(t, 0, payments.markCompletedN)
}

func TestVerifyPaymentBookingNotFound(t *testing.T) {
	svc, _, _, _, _, _, _ := testService()

	out := svc.VerifyPayment(context.Background(), validVerifyInput("ghost", "order_1"))

	assert.False(t, out.OK)
	assert.Equal(t, ReasonBookingNotFound, out.Reason)
}

func TestVerifyPaymentPaymentNotFound(t *testing.T) {
	svc, bookings, _, _, _, _, _ := testService()
	bk := seedBooking(bookings, "bk-1", "clinic-1", "tr-1", "2024-06-01", "10:00", models.BookingStatusPaymentNotCompleted, models.SessionStatusPending)
	bk.PaymentID = "missing"

	out := svc.VerifyPayment(context.Background(), validVerifyInput("bk-1", "order_1"))

	assert.False(t, out.OK)
	assert.Equal(t, ReasonPaymentNotFound, out.Reason)
}

func TestVerifyPaymentOrderIDMismatch(t *testing.T) {
	svc, bookings, payments, _, _, _, _ := testService()
	bk, _ := seedPendingPayment(bookings, payments, "bk-1", "order_stored")

	out := svc.VerifyPayment(context.Background(), validVerifyInput("bk-1", "order_other"))

	assert.False(t, out.OK)
	assert.Equal(t, ReasonOrderIDMismatch, out.Reason)
	assert.Equal(t, models.BookingStatusPaymentNotCompleted, bookings.bookings[bk.ID].SessionStatus)
}

func TestVerifyPaymentHappyPath(t *testing.T) {
	svc, bookings, payments, _, _, _, cache := testService()
	bk, p := seedPendingPayment(bookings, payments, "bk-1", "order_1")

	out := svc.VerifyPayment(context.Background(), validVerifyInput("bk-1", "order_1"))

	require.True(t, out.OK)
	assert.False(t, out.AlreadyProcessed)
	assert.Equal(t, models.BookingStatusConfirmed, out.SessionStatus)
	assert.Equal(t, models.PaymentStatusCompleted, out.PaymentStatus)
	assert.Equal(t, 2200.0, out.Amount)

	got := bookings.bookings[bk.ID]
	assert.Equal(t, models.BookingStatusConfirmed, got.SessionStatus)
	assert.Equal(t, models.BookingSourceWeb, got.BookingSource)
	require.NotNil(t, got.PaymentVerifiedAt)

	pay := payments.payments[p.ID]
	assert.Equal(t, models.PaymentStatusCompleted, pay.Status)
	assert.Equal(t, "pay_gw_123", pay.GatewayPaymentID)
	assert.Equal(t, "203.0.113.7", pay.VerificationIP)
	assert.Equal(t, "test-agent/1.0", pay.VerificationUserAgent)
	require.NotNil(t, pay.CompletedAt)

	assert.Equal(t, 1, cache.invalidations)
}

func TestVerifyPaymentReplayIsIdempotent(t *testing.T) {
	svc, bookings, payments, _, _, _, _ := testService()
	seedPendingPayment(bookings, payments, "bk-1", "order_1")

	in := validVerifyInput("bk-1", "order_1")
	first := svc.VerifyPayment(context.Background(), in)
	require.True(t, first.OK)
	completedAt := *payments.payments["pay-bk-1"].CompletedAt

	second := svc.VerifyPayment(context.Background(), in)

	require.True(t, second.OK)
	assert.True(t, second.AlreadyProcessed)
	assert.Equal(t, 2200.0, second.Amount)
	assert.Equal(t, models.BookingStatusConfirmed, second.SessionStatus)

	// The replay settles without rewriting anything.
	assert.Equal(t, 1, payments.markCompletedN)
	assert.Equal(t, completedAt, *payments.payments["pay-bk-1"].CompletedAt)
}

func TestVerifyPaymentAppPlatformStoredAsSource(t *testing.T) {
	svc, bookings, payments, _, _, _, _ := testService()
	bk, _ := seedPendingPayment(bookings, payments, "bk-1", "order_1")

	in := validVerifyInput("bk-1", "order_1")
	in.Platform = models.BookingSourceApp
	out := svc.VerifyPayment(context.Background(), in)

	require.True(t, out.OK)
	assert.Equal(t, models.BookingSourceApp, bookings.bookings[bk.ID].BookingSource)
}

func TestNormalizePlatform(t *testing.T) {
	assert.Equal(t, models.BookingSourceWeb, NormalizePlatform(""))
	assert.Equal(t, models.BookingSourceWeb, NormalizePlatform("kiosk"))
	assert.Equal(t, models.BookingSourceApp, NormalizePlatform(models.BookingSourceApp))
	assert.Equal(t, models.BookingSourceAdmin, NormalizePlatform(models.BookingSourceAdmin))
}
