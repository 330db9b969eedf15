package models

import "time"

// Treatment booking states.
const (
	TreatmentStatusBookingOpen   = "Booking Open"
	TreatmentStatusBookingClosed = "Booking Closed"
)

// Treatment is a bookable clinic service. Pricing may be absent; the booking
// core then falls back to the configured default session price.
type Treatment struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	ClinicID string `bson:"clinic_id,omitempty" json:"clinic_id,omitempty"`

	Status string `bson:"status" json:"status"`

	PricePerSession         *float64 `bson:"price_per_session,omitempty" json:"price_per_session,omitempty"`
	DiscountPricePerSession *float64 `bson:"discount_price_per_session,omitempty" json:"discount_price_per_session,omitempty"`

	SessionsRecommended int `bson:"sessions_recommended,omitempty" json:"sessions_recommended,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Clinic is the location a booking belongs to. Managed elsewhere; the core
// only reads it to populate booking responses.
type Clinic struct {
	ID      string `bson:"id" json:"id"`
	Name    string `bson:"name" json:"name"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
}
