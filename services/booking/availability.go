package booking

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"clinicbook/models"
	"clinicbook/utils"

	"go.uber.org/zap"
)

// timeOfDayRx validates HH:MM in 24-hour form.
var timeOfDayRx = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

const dateLayout = "2006-01-02"

// AvailabilityRequest identifies one slot. TreatmentID is optional: the
// pre-booking recheck scopes by clinic only when the booking has no treatment.
type AvailabilityRequest struct {
	Date        string
	Time        string
	ClinicID    string
	TreatmentID string
}

// AvailabilityResult reports whether the slot can accept one more booking.
type AvailabilityResult struct {
	Available          bool
	AvailableSlots     int
	BookedSlots        int
	MaxBookingsPerSlot int
	Restriction        *models.SlotRestriction
	Details            []models.SlotBookingDetail
	Config             *models.BookingConfig
}

// CheckAvailability evaluates special restrictions first, then slot capacity.
// Both filters must pass for the slot to be available; an active restriction
// short-circuits before capacity is even counted.
func (s *DefaultBookingService) CheckAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResult, error) {
	dayStart, err := validateSlotInput(req)
	if err != nil {
		return nil, err
	}

	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	if rule := restrictionFor(cfg, req.ClinicID, req.Date, req.Time); rule != nil {
		utils.GetLogger().Info("slot blocked by special restriction",
			zap.String("clinicID", req.ClinicID),
			zap.String("date", req.Date),
			zap.String("time", req.Time),
			zap.String("reason", rule.Reason))
		return &AvailabilityResult{
			Available:          false,
			AvailableSlots:     0,
			BookedSlots:        0,
			MaxBookingsPerSlot: cfg.BookingLimitPerSlot,
			Restriction:        rule,
			Config:             cfg,
		}, nil
	}

	dayEnd := dayStart.AddDate(0, 0, 1)
	entries, err := s.Bookings.ListBookedSessionEntries(ctx, req.ClinicID, req.TreatmentID, dayStart, dayEnd, req.Time)
	if err != nil {
		return nil, fmt.Errorf("failed to count booked slots: %w", err)
	}

	booked := len(entries)
	available := cfg.BookingLimitPerSlot - booked
	if available < 0 {
		available = 0
	}

	return &AvailabilityResult{
		Available:          available > 0,
		AvailableSlots:     available,
		BookedSlots:        booked,
		MaxBookingsPerSlot: cfg.BookingLimitPerSlot,
		Details:            entries,
		Config:             cfg,
	}, nil
}

// recheckCapacity is the pre-persist availability check. It runs with the
// transaction context so the count is snapshot-consistent with the writes
// that follow it.
func (s *DefaultBookingService) recheckCapacity(ctx context.Context, cfg *models.BookingConfig, req AvailabilityRequest) error {
	if rule := restrictionFor(cfg, req.ClinicID, req.Date, req.Time); rule != nil {
		return NewConflictError(fmt.Sprintf("the slot on %s at %s is no longer available", req.Date, req.Time))
	}

	dayStart, _ := time.Parse(dateLayout, req.Date)
	dayEnd := dayStart.AddDate(0, 0, 1)
	booked, err := s.Bookings.CountBookedSessionSlots(ctx, req.ClinicID, req.TreatmentID, dayStart, dayEnd, req.Time)
	if err != nil {
		return fmt.Errorf("failed to recheck slot capacity: %w", err)
	}
	if booked >= cfg.BookingLimitPerSlot {
		return NewConflictError(fmt.Sprintf("the slot on %s at %s is no longer available", req.Date, req.Time))
	}
	return nil
}

func (s *DefaultBookingService) loadConfig(ctx context.Context) (*models.BookingConfig, error) {
	cfg, err := s.Settings.GetActive(ctx)
	if err != nil {
		utils.GetLogger().Error("booking configuration unavailable", zap.Error(err))
		return nil, NewConfigError("booking configuration is missing; the system cannot take bookings")
	}
	return cfg, nil
}

func validateSlotInput(req AvailabilityRequest) (time.Time, error) {
	if req.ClinicID == "" {
		return time.Time{}, NewValidationError("clinic_id is required")
	}
	dayStart, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return time.Time{}, NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date))
	}
	if !timeOfDayRx.MatchString(req.Time) {
		return time.Time{}, NewValidationError(fmt.Sprintf("invalid time %q, expected HH:MM in 24-hour form", req.Time))
	}
	return dayStart, nil
}

// restrictionFor returns the first active restriction covering the slot, or
// nil. Rules scoped to another clinic or date are skipped.
func restrictionFor(cfg *models.BookingConfig, clinicID, date, timeOfDay string) *models.SlotRestriction {
	minutes := minutesOfDay(timeOfDay)
	for i := range cfg.SpecialSlotRestrictions {
		rule := &cfg.SpecialSlotRestrictions[i]
		if !rule.IsActive {
			continue
		}
		if rule.ClinicID != "" && rule.ClinicID != clinicID {
			continue
		}
		if rule.Date != "" && rule.Date != date {
			continue
		}
		for _, w := range rule.Windows {
			if windowContains(w, minutes) {
				return rule
			}
		}
	}
	return nil
}

// windowContains reports whether the minute-of-day falls inside [start, end).
// A window whose end precedes its start wraps past midnight: the slot is
// blocked when the time is at or after start, or at or before end.
func windowContains(w models.RestrictionWindow, minutes int) bool {
	start := minutesOfDay(w.StartTime)
	end := minutesOfDay(w.EndTime)
	if end < start {
		return minutes >= start || minutes <= end
	}
	return minutes >= start && minutes < end
}

func minutesOfDay(timeOfDay string) int {
	parts := strings.SplitN(timeOfDay, ":", 2)
	if len(parts) != 2 {
		return -1
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return -1
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return -1
	}
	return h*60 + m
}
