package models

import "time"

// Overall booking lifecycle states.
const (
	BookingStatusPaymentNotCompleted = "Payment Not Completed"
	BookingStatusPending             = "Pending"
	BookingStatusConfirmed           = "Confirmed"
	BookingStatusCancelled           = "Cancelled"
	BookingStatusCompleted           = "Completed"
)

// Per-session states within SessionDates.
const (
	SessionStatusPending     = "Pending"
	SessionStatusConfirmed   = "Confirmed"
	SessionStatusRescheduled = "Rescheduled"
	SessionStatusCancelled   = "Cancelled"
	SessionStatusCompleted   = "Completed"
)

// Booking sources accepted from the payment callback.
const (
	BookingSourceWeb   = "web"
	BookingSourceApp   = "app"
	BookingSourceAdmin = "admin"
)

// RescheduleEntry records one move of a session to a new date/time.
type RescheduleEntry struct {
	FromDate      time.Time `bson:"from_date" json:"fromDate"`
	FromTime      string    `bson:"from_time" json:"fromTime"`
	ToDate        time.Time `bson:"to_date" json:"toDate"`
	ToTime        string    `bson:"to_time" json:"toTime"`
	RescheduledAt time.Time `bson:"rescheduled_at" json:"rescheduledAt"`
	RescheduledBy string    `bson:"rescheduled_by,omitempty" json:"rescheduledBy,omitempty"`
}

// SessionDate is one occurrence within a multi-session booking.
type SessionDate struct {
	SessionNumber     int               `bson:"session_number" json:"sessionNumber"` // 1-based
	Date              time.Time         `bson:"date" json:"date"`
	Time              string            `bson:"time" json:"time"` // HH:MM 24h
	Status            string            `bson:"status" json:"status"`
	RescheduleHistory []RescheduleEntry `bson:"reschedule_history,omitempty" json:"rescheduleHistory,omitempty"`
}

// CancellationDetails is populated only when a booking is cancelled.
type CancellationDetails struct {
	CancelledAt    time.Time `bson:"cancelled_at" json:"cancelledAt"`
	CancelledBy    string    `bson:"cancelled_by" json:"cancelledBy"`
	Reason         string    `bson:"reason" json:"reason"`
	RefundEligible bool      `bson:"refund_eligible" json:"refundEligible"`
}

// PatientDetails carries the patient contact info captured at booking time.
type PatientDetails struct {
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone" json:"phone"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Age   int    `bson:"age,omitempty" json:"age,omitempty"`
	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Booking is a clinic appointment booking. It is created in
// "Payment Not Completed" as part of the booking transaction, moves to
// "Confirmed" only through payment verification and is never hard-deleted.
type Booking struct {
	ID            string `bson:"id" json:"id"`
	BookingNumber string `bson:"booking_number" json:"bookingNumber"`

	TreatmentID string `bson:"treatment_id,omitempty" json:"treatment_id,omitempty"`
	ClinicID    string `bson:"clinic_id" json:"clinic_id"`
	DoctorID    string `bson:"doctor_id,omitempty" json:"doctor_id,omitempty"`
	UserID      string `bson:"user_id" json:"user_id"`

	PatientDetails PatientDetails `bson:"patient_details" json:"patientDetails"`
	SessionDates   []SessionDate  `bson:"session_dates" json:"sessionDates"`
	SessionsTotal  int            `bson:"sessions_total" json:"sessionsTotal"`

	SessionStatus string `bson:"session_status" json:"session_status"`

	AmountPerSession float64 `bson:"amount_per_session" json:"amountPerSession"`
	TotalAmount      float64 `bson:"total_amount" json:"totalAmount"`

	PaymentID     string `bson:"payment_id" json:"payment_id"`
	BookingSource string `bson:"booking_source,omitempty" json:"bookingSource,omitempty"`

	PaymentVerifiedAt *time.Time           `bson:"payment_verified_at,omitempty" json:"paymentVerifiedAt,omitempty"`
	Cancellation      *CancellationDetails `bson:"cancellation,omitempty" json:"cancellation,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SlotBookingDetail is one counted session-date entry at a slot, as returned
// by the availability check.
type SlotBookingDetail struct {
	BookingID     string `bson:"booking_id" json:"bookingId"`
	BookingNumber string `bson:"booking_number" json:"bookingNumber"`
	SessionNumber int    `bson:"session_number" json:"sessionNumber"`
	Status        string `bson:"status" json:"status"`
}
