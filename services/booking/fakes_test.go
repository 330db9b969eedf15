package booking

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	bookingRepo "clinicbook/database/repository/booking"
	paymentRepo "clinicbook/database/repository/payment"
	settingsRepo "clinicbook/database/repository/settings"
	treatmentRepo "clinicbook/database/repository/treatment"
	"clinicbook/gateway"
	"clinicbook/models"
)

const testGatewaySecret = "test-secret"

// fakeBookingRepo keeps bookings in memory and answers slot counts the way
// the mongo aggregation does: by counting matching session-date entries.
type fakeBookingRepo struct {
	bookings  map[string]*models.Booking
	insertErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingRepo) Insert(_ context.Context, booking *models.Booking) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	cp := *booking
	f.bookings[booking.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	bk, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *bk
	return &cp, nil
}

func (f *fakeBookingRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, bk := range f.bookings {
		if bk.UserID == userID {
			out = append(out, *bk)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) matchingEntries(clinicID, treatmentID string, dayStart, dayEnd time.Time, timeOfDay string) []models.SlotBookingDetail {
	countable := map[string]bool{
		models.SessionStatusPending:     true,
		models.SessionStatusConfirmed:   true,
		models.SessionStatusRescheduled: true,
	}
	var entries []models.SlotBookingDetail
	for _, bk := range f.bookings {
		if bk.ClinicID != clinicID {
			continue
		}
		if treatmentID != "" && bk.TreatmentID != treatmentID {
			continue
		}
		for _, sd := range bk.SessionDates {
			if sd.Time != timeOfDay || !countable[sd.Status] {
				continue
			}
			if sd.Date.Before(dayStart) || !sd.Date.Before(dayEnd) {
				continue
			}
			entries = append(entries, models.SlotBookingDetail{
				BookingID:     bk.ID,
				BookingNumber: bk.BookingNumber,
				SessionNumber: sd.SessionNumber,
				Status:        sd.Status,
			})
		}
	}
	return entries
}

func (f *fakeBookingRepo) CountBookedSessionSlots(_ context.Context, clinicID, treatmentID string, dayStart, dayEnd time.Time, timeOfDay string) (int, error) {
	return len(f.matchingEntries(clinicID, treatmentID, dayStart, dayEnd, timeOfDay)), nil
}

func (f *fakeBookingRepo) ListBookedSessionEntries(_ context.Context, clinicID, treatmentID string, dayStart, dayEnd time.Time, timeOfDay string) ([]models.SlotBookingDetail, error) {
	return f.matchingEntries(clinicID, treatmentID, dayStart, dayEnd, timeOfDay), nil
}

func (f *fakeBookingRepo) SetConfirmed(_ context.Context, id, source string, verifiedAt time.Time) error {
	bk, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	bk.SessionStatus = models.BookingStatusConfirmed
	bk.BookingSource = source
	bk.PaymentVerifiedAt = &verifiedAt
	return nil
}

func (f *fakeBookingRepo) SetCancelled(_ context.Context, id string, details models.CancellationDetails) error {
	bk, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	bk.SessionStatus = models.BookingStatusCancelled
	for i := range bk.SessionDates {
		bk.SessionDates[i].Status = models.SessionStatusCancelled
	}
	bk.Cancellation = &details
	return nil
}

func (f *fakeBookingRepo) ListStalePending(_ context.Context, cutoff time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, bk := range f.bookings {
		if bk.SessionStatus == models.BookingStatusPaymentNotCompleted && bk.CreatedAt.Before(cutoff) {
			out = append(out, *bk)
		}
	}
	return out, nil
}

type fakePaymentRepo struct {
	payments       map[string]*models.Payment
	insertErr      error
	bookingRefErr  error
	markCompletedN int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*models.Payment)}
}

func (f *fakePaymentRepo) Insert(_ context.Context, payment *models.Payment) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	cp := *payment
	f.payments[payment.ID] = &cp
	return nil
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id string) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, paymentRepo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentRepo) SetBookingRef(_ context.Context, paymentID, bookingID string) error {
	if f.bookingRefErr != nil {
		return f.bookingRefErr
	}
	p, ok := f.payments[paymentID]
	if !ok {
		return paymentRepo.ErrNotFound
	}
	p.BookingID = bookingID
	return nil
}

func (f *fakePaymentRepo) MarkCompleted(_ context.Context, id string, completion models.PaymentCompletion) error {
	p, ok := f.payments[id]
	if !ok {
		return paymentRepo.ErrNotFound
	}
	f.markCompletedN++
	p.Status = models.PaymentStatusCompleted
	p.GatewayPaymentID = completion.GatewayPaymentID
	p.Signature = completion.Signature
	p.CompletedAt = &completion.CompletedAt
	p.VerifiedAt = &completion.VerifiedAt
	p.VerificationIP = completion.IP
	p.VerificationUserAgent = completion.UserAgent
	return nil
}

func (f *fakePaymentRepo) MarkFailed(_ context.Context, id, reason string) error {
	p, ok := f.payments[id]
	if !ok {
		return paymentRepo.ErrNotFound
	}
	p.Status = models.PaymentStatusFailed
	p.FailureReason = reason
	return nil
}

type fakeSettingsRepo struct {
	cfg *models.BookingConfig
}

func (f *fakeSettingsRepo) GetActive(_ context.Context) (*models.BookingConfig, error) {
	if f.cfg == nil {
		return nil, settingsRepo.ErrNoActiveConfig
	}
	cp := *f.cfg
	return &cp, nil
}

type fakeTreatmentRepo struct {
	treatments map[string]*models.Treatment
}

func newFakeTreatmentRepo() *fakeTreatmentRepo {
	return &fakeTreatmentRepo{treatments: make(map[string]*models.Treatment)}
}

func (f *fakeTreatmentRepo) GetByID(_ context.Context, id string) (*models.Treatment, error) {
	t, ok := f.treatments[id]
	if !ok {
		return nil, treatmentRepo.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

type fakeClinicRepo struct {
	clinics map[string]*models.Clinic
}

func (f *fakeClinicRepo) GetByID(_ context.Context, id string) (*models.Clinic, error) {
	if f == nil || f.clinics == nil {
		return nil, errors.New("clinic not found")
	}
	c, ok := f.clinics[id]
	if !ok {
		return nil, errors.New("clinic not found")
	}
	cp := *c
	return &cp, nil
}

// fakeTxRunner snapshots the in-memory repos before running fn and restores
// them when fn fails, mimicking a transaction rollback.
type fakeTxRunner struct {
	bookings *fakeBookingRepo
	payments *fakePaymentRepo
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	bkSnap := make(map[string]*models.Booking, len(f.bookings.bookings))
	for k, v := range f.bookings.bookings {
		cp := *v
		bkSnap[k] = &cp
	}
	paySnap := make(map[string]*models.Payment, len(f.payments.payments))
	for k, v := range f.payments.payments {
		cp := *v
		paySnap[k] = &cp
	}

	if err := fn(ctx); err != nil {
		f.bookings.bookings = bkSnap
		f.payments.payments = paySnap
		return err
	}
	return nil
}

type createdOrder struct {
	amountPaise int64
	currency    string
	receipt     string
}

// fakeGateway signs and verifies with the same HMAC scheme as the real
// gateway. onCreate lets a test race a competing booking in while the order
// is being created.
type fakeGateway struct {
	failCreate bool
	orders     []createdOrder
	onCreate   func()
	nextID     int
}

func (f *fakeGateway) CreateOrder(_ context.Context, amountPaise int64, currency, receipt string, _ map[string]interface{}) (*gateway.Order, error) {
	if f.onCreate != nil {
		f.onCreate()
	}
	if f.failCreate {
		return nil, errors.New("gateway unreachable")
	}
	f.nextID++
	f.orders = append(f.orders, createdOrder{amountPaise: amountPaise, currency: currency, receipt: receipt})
	id := "order_fake_" + string(rune('A'+f.nextID-1))
	return &gateway.Order{
		ID:          id,
		AmountPaise: amountPaise,
		Currency:    currency,
		Raw:         map[string]interface{}{"id": id, "amount": amountPaise, "currency": currency},
	}, nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signFake(orderID, paymentID) == signature
}

func (f *fakeGateway) KeyID() string { return "rzp_test_key" }

func signFake(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testGatewaySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

type fakeCache struct {
	invalidations int
	err           error
}

func (f *fakeCache) InvalidateAvailability(_ context.Context) error {
	f.invalidations++
	return f.err
}

// testService builds a fully-faked service with a sane default configuration.
func testService() (*DefaultBookingService, *fakeBookingRepo, *fakePaymentRepo, *fakeSettingsRepo, *fakeTreatmentRepo, *fakeGateway, *fakeCache) {
	bookings := newFakeBookingRepo()
	payments := newFakePaymentRepo()
	settings := &fakeSettingsRepo{cfg: &models.BookingConfig{
		ID:                      "cfg-1",
		SlotsPerHour:            2,
		BookingLimitPerSlot:     3,
		TaxPercentage:           10,
		CreditCardFeePercentage: 2,
		DefaultSessionPrice:     1500,
		Currency:                "INR",
		IsActive:                true,
	}}
	treatments := newFakeTreatmentRepo()
	gw := &fakeGateway{}
	cache := &fakeCache{}

	svc := &DefaultBookingService{
		Bookings:   bookings,
		Payments:   payments,
		Settings:   settings,
		Treatments: treatments,
		Clinics:    &fakeClinicRepo{},
		Gateway:    gw,
		Tx:         &fakeTxRunner{bookings: bookings, payments: payments},
		Cache:      cache,
	}
	return svc, bookings, payments, settings, treatments, gw, cache
}

// seedBooking inserts a booking holding the given slot.
func seedBooking(repo *fakeBookingRepo, id, clinicID, treatmentID, date, timeOfDay, sessionStatus, entryStatus string) *models.Booking {
	day, _ := time.Parse("2006-01-02", date)
	bk := &models.Booking{
		ID:            id,
		BookingNumber: "BK-" + id,
		ClinicID:      clinicID,
		TreatmentID:   treatmentID,
		UserID:        "user-" + id,
		SessionStatus: sessionStatus,
		SessionDates: []models.SessionDate{{
			SessionNumber: 1,
			Date:          day,
			Time:          timeOfDay,
			Status:        entryStatus,
		}},
		CreatedAt: time.Now(),
	}
	repo.bookings[id] = bk
	return bk
}
