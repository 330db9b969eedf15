package models

// RestrictionWindow is one blocked [start, end) time window. When EndTime is
// earlier than StartTime the window wraps past midnight.
type RestrictionWindow struct {
	StartTime string `bson:"start_time" json:"start_time"` // HH:MM 24h
	EndTime   string `bson:"end_time" json:"end_time"`     // HH:MM 24h
}

// SlotRestriction blocks bookings entirely during its windows, regardless of
// remaining capacity. ClinicID and Date narrow the rule's scope; empty means
// the rule applies everywhere / every day.
type SlotRestriction struct {
	ClinicID string              `bson:"clinic_id,omitempty" json:"clinic_id,omitempty"`
	Date     string              `bson:"date,omitempty" json:"date,omitempty"` // YYYY-MM-DD
	Windows  []RestrictionWindow `bson:"windows" json:"windows"`
	Reason   string              `bson:"reason,omitempty" json:"reason,omitempty"`
	IsActive bool                `bson:"is_active" json:"is_active"`
}

// BookingConfig is the active booking configuration. The core only ever reads
// it; without an active config the system cannot take bookings.
type BookingConfig struct {
	ID string `bson:"id" json:"id"`

	SlotsPerHour        int `bson:"slots_per_hour" json:"slots_per_hour"`
	BookingLimitPerSlot int `bson:"booking_limit_per_slot" json:"booking_limit_per_slot"`

	TaxPercentage           float64 `bson:"tax_percentage" json:"tax_percentage"`
	CreditCardFeePercentage float64 `bson:"credit_card_fee_percentage" json:"credit_card_fee_percentage"`

	// DefaultSessionPrice backs treatments with no configured price.
	DefaultSessionPrice float64 `bson:"default_session_price" json:"default_session_price"`
	Currency            string  `bson:"currency" json:"currency"`

	SpecialSlotRestrictions []SlotRestriction `bson:"special_slot_restrictions,omitempty" json:"special_slot_restrictions,omitempty"`

	IsActive bool `bson:"is_active" json:"is_active"`
}

// SlotMinutes derives the slot granularity from SlotsPerHour.
func (c *BookingConfig) SlotMinutes() int {
	if c.SlotsPerHour <= 0 {
		return 60
	}
	return 60 / c.SlotsPerHour
}
