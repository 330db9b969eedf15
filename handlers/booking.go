package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"clinicbook/config"
	"clinicbook/models"
	"clinicbook/services/booking"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking core over HTTP.
type BookingHandler struct {
	Service     booking.BookingService
	CacheClient *redis.Client
	logger      *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, cacheClient *redis.Client, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, CacheClient: cacheClient, logger: logger}
}

// respondServiceError maps a service error to the HTTP taxonomy. Raw internal
// detail is only exposed outside production.
func respondServiceError(c *gin.Context, err error) {
	if be, ok := booking.AsBookingError(err); ok {
		c.JSON(be.Status, gin.H{"success": false, "message": be.Message, "reason": be.Code})
		return
	}
	utils.GetLogger().Error("unexpected booking error", zap.Error(err))
	body := gin.H{"success": false, "message": "Internal Server Error"}
	if !config.IsProduction() {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

// CheckAvailability handles POST /api/bookings/check-availability.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var input struct {
		Date        string `json:"date"`
		Time        string `json:"time"`
		TreatmentID string `json:"service_id"`
		ClinicID    string `json:"clinic_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input", "details": err.Error()})
		return
	}
	if input.TreatmentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing required fields: service_id", "reason": booking.CodeValidation})
		return
	}

	ctx := c.Request.Context()
	cacheKey := utils.AvailabilityCacheKey(input.ClinicID, input.TreatmentID, input.Date, input.Time)
	if h.CacheClient != nil {
		if cached, err := h.CacheClient.Get(ctx, cacheKey).Result(); err == nil {
			var data models.AvailabilityData
			if err := json.Unmarshal([]byte(cached), &data); err == nil {
				c.JSON(http.StatusOK, gin.H{"success": true, "message": "availability fetched", "data": data})
				return
			}
		}
	}

	result, err := h.Service.CheckAvailability(ctx, booking.AvailabilityRequest{
		Date:        input.Date,
		Time:        input.Time,
		ClinicID:    input.ClinicID,
		TreatmentID: input.TreatmentID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	details := result.Details
	if details == nil {
		details = []models.SlotBookingDetail{}
	}
	data := models.AvailabilityData{
		Available:          result.Available,
		AvailableSlots:     result.AvailableSlots,
		BookedSlots:        result.BookedSlots,
		MaxBookingsPerSlot: result.MaxBookingsPerSlot,
		Date:               input.Date,
		Time:               input.Time,
		TreatmentID:        input.TreatmentID,
		ClinicID:           input.ClinicID,
		BookingDetails:     details,
		Configuration: models.AvailabilityConfig{
			SlotsPerHour:        result.Config.SlotsPerHour,
			BookingLimitPerSlot: result.Config.BookingLimitPerSlot,
		},
		Restriction: result.Restriction,
	}

	if h.CacheClient != nil {
		if encoded, err := json.Marshal(data); err == nil {
			if err := h.CacheClient.Set(ctx, cacheKey, encoded, utils.AvailabilityCacheTTL).Err(); err != nil {
				h.logger.Warn("failed to cache availability", zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "availability fetched", "data": data})
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input struct {
		PaymentMethod  string                 `json:"payment_method"`
		PatientDetails *models.PatientDetails `json:"patient_details"`
		TreatmentID    string                 `json:"service_id"`
		ClinicID       string                 `json:"clinic_id"`
		DoctorID       string                 `json:"doctor_id"`
		Sessions       int                    `json:"sessions"`
		Date           string                 `json:"date"`
		Time           string                 `json:"time"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input", "details": err.Error()})
		return
	}

	userID := c.GetString("userID")
	data, err := h.Service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:         userID,
		PaymentMethod:  input.PaymentMethod,
		PatientDetails: input.PatientDetails,
		TreatmentID:    input.TreatmentID,
		ClinicID:       input.ClinicID,
		DoctorID:       input.DoctorID,
		Sessions:       input.Sessions,
		Date:           input.Date,
		Time:           input.Time,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "booking created, complete the payment to confirm",
		"data":    data,
	})
}

// VerifyPayment handles the gateway callback on GET and POST
// /api/bookings/verify-payment. Parameters may arrive in the query string or
// the body; every branch ends in a redirect (web) or a JSON response.
func (h *BookingHandler) VerifyPayment(c *gin.Context) {
	param := func(name string) string {
		if v := c.Query(name); v != "" {
			return v
		}
		return c.PostForm(name)
	}

	// JSON bodies are also accepted on POST.
	var body struct {
		Platform  string `json:"platform"`
		BookingID string `json:"booking_id"`
		PaymentID string `json:"razorpay_payment_id"`
		OrderID   string `json:"razorpay_order_id"`
		Signature string `json:"razorpay_signature"`
	}
	if c.Request.Method == http.MethodPost && strings.Contains(c.ContentType(), "application/json") {
		_ = c.ShouldBindJSON(&body)
	}
	pick := func(fromQuery, fromBody string) string {
		if fromQuery != "" {
			return fromQuery
		}
		return fromBody
	}

	platform := booking.NormalizePlatform(pick(param("platform"), body.Platform))
	in := booking.VerifyInput{
		Platform:  platform,
		BookingID: pick(param("booking_id"), body.BookingID),
		PaymentID: pick(param("razorpay_payment_id"), body.PaymentID),
		OrderID:   pick(param("razorpay_order_id"), body.OrderID),
		Signature: pick(param("razorpay_signature"), body.Signature),
		ClientIP:  clientIP(c),
		UserAgent: c.Request.UserAgent(),
	}

	outcome := h.Service.VerifyPayment(c.Request.Context(), in)

	if platform == models.BookingSourceWeb {
		c.Redirect(http.StatusFound, redirectURL(outcome))
		return
	}

	if outcome.OK {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": outcome.Message,
			"data": gin.H{
				"booking_id":     outcome.BookingID,
				"payment_id":     outcome.PaymentID,
				"session_status": outcome.SessionStatus,
				"payment_status": outcome.PaymentStatus,
			},
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": outcome.Message,
		"reason":  outcome.Reason,
		"missing": outcome.MissingFields,
	})
}

// redirectURL builds the frontend redirect for the web flow, always carrying
// a reason the frontend can map to a friendly message.
func redirectURL(outcome *booking.VerifyOutcome) string {
	base := config.AppConfig.FrontendURL
	if outcome.OK {
		return fmt.Sprintf("%s/booking-success?bookingId=%s", base, url.QueryEscape(outcome.BookingID))
	}
	q := url.Values{}
	q.Set("reason", outcome.Reason)
	if outcome.BookingID != "" {
		q.Set("booking_id", outcome.BookingID)
	}
	if outcome.Message != "" {
		q.Set("error", outcome.Message)
	}
	return fmt.Sprintf("%s/booking-failed?%s", base, q.Encode())
}

// ReportPaymentFailure handles POST /api/bookings/payment-failure, reached
// when the payment widget is dismissed or the gateway reports a failure.
func (h *BookingHandler) ReportPaymentFailure(c *gin.Context) {
	var input struct {
		BookingID        string `json:"booking_id"`
		PaymentID        string `json:"payment_id"`
		ErrorDescription string `json:"error_description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.HandlePaymentFailure(c.Request.Context(), input.BookingID, input.PaymentID, input.ErrorDescription); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "payment failure recorded"})
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid booking id", "reason": booking.CodeValidation})
		return
	}

	detail, err := h.Service.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "booking fetched", "data": detail})
}

// ListMyBookings handles GET /api/bookings for the authenticated user.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	bookings, err := h.Service.ListUserBookings(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "bookings fetched", "data": bookings})
}
