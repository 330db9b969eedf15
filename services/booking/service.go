package booking

import (
	"clinicbook/database/repository"
	bookingRepo "clinicbook/database/repository/booking"
	clinicRepo "clinicbook/database/repository/clinic"
	paymentRepo "clinicbook/database/repository/payment"
	settingsRepo "clinicbook/database/repository/settings"
	treatmentRepo "clinicbook/database/repository/treatment"
	"clinicbook/gateway"
)

// DefaultBookingService wires the booking core against its repositories, the
// payment gateway and the availability cache.
type DefaultBookingService struct {
	Bookings   bookingRepo.BookingRepository
	Payments   paymentRepo.PaymentRepository
	Settings   settingsRepo.SettingsRepository
	Treatments treatmentRepo.TreatmentRepository
	Clinics    clinicRepo.ClinicRepository
	Gateway    gateway.PaymentGateway
	Tx         repository.TxRunner
	Cache      CacheInvalidator
}
