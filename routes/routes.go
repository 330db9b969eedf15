package routes

import (
	"net/http"

	"clinicbook/handlers"
	"clinicbook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking core.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api/bookings")
	{
		// Public endpoints.
		api.POST("/check-availability", bh.CheckAvailability)
		api.GET("/verify-payment", bh.VerifyPayment)
		api.POST("/verify-payment", bh.VerifyPayment)
		api.POST("/payment-failure", bh.ReportPaymentFailure)
		api.GET("/:id", bh.GetBooking)

		// Protected routes (Require Authentication)
		auth := api.Group("")
		auth.Use(middleware.JWTAuthUserMiddleware())
		auth.POST("", bh.CreateBooking)
		auth.GET("", bh.ListMyBookings)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "clinicbook is up"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, bh)
}
