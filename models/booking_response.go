package models

// AvailabilityData is the data payload of the availability-check response.
type AvailabilityData struct {
	Available          bool                `json:"available"`
	AvailableSlots     int                 `json:"availableSlots"`
	BookedSlots        int                 `json:"bookedSlots"`
	MaxBookingsPerSlot int                 `json:"maxBookingsPerSlot"`
	Date               string              `json:"date"`
	Time               string              `json:"time"`
	TreatmentID        string              `json:"service_id,omitempty"`
	ClinicID           string              `json:"clinic_id"`
	BookingDetails     []SlotBookingDetail `json:"bookingDetails"`
	Configuration      AvailabilityConfig  `json:"configuration"`
	Restriction        *SlotRestriction    `json:"restrictions,omitempty"`
}

// AvailabilityConfig echoes the relevant booking configuration.
type AvailabilityConfig struct {
	SlotsPerHour        int `json:"slotsPerHour"`
	BookingLimitPerSlot int `json:"bookingLimitPerSlot"`
}

// BookingCreatedData is returned by a successful booking creation; it carries
// everything the client needs to open the payment widget.
type BookingCreatedData struct {
	Booking       BookingSummary         `json:"booking"`
	Payment       PaymentOrderSummary    `json:"payment"`
	RazorpayOrder map[string]interface{} `json:"razorpayOrder"`
}

// BookingSummary is the condensed booking view in the creation response.
type BookingSummary struct {
	ID            string        `json:"id"`
	BookingNumber string        `json:"bookingNumber"`
	SessionDates  []SessionDate `json:"sessionDates"`
	TotalAmount   float64       `json:"totalAmount"`
	Status        string        `json:"status"`
}

// PaymentOrderSummary holds the gateway order details for the payment widget.
type PaymentOrderSummary struct {
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Key      string  `json:"key"`
}

// BookingDetail is the populated booking document returned by the fetch-by-id
// endpoint.
type BookingDetail struct {
	Booking
	Clinic    *Clinic    `json:"clinic,omitempty"`
	Treatment *Treatment `json:"treatment,omitempty"`
	Payment   *Payment   `json:"payment,omitempty"`
}
