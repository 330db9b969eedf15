// File: clinicbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinicbook/config"
	"clinicbook/cron"
	"clinicbook/database"
	"clinicbook/database/repository"
	bookingRepoPkg "clinicbook/database/repository/booking"
	clinicRepoPkg "clinicbook/database/repository/clinic"
	paymentRepoPkg "clinicbook/database/repository/payment"
	settingsRepoPkg "clinicbook/database/repository/settings"
	treatmentRepoPkg "clinicbook/database/repository/treatment"
	"clinicbook/gateway"
	"clinicbook/handlers"
	"clinicbook/routes"
	"clinicbook/services/booking"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()
	settingsRepo := settingsRepoPkg.NewMongoSettingsRepo()
	treatmentRepo := treatmentRepoPkg.NewMongoTreatmentRepo()
	clinicRepo := clinicRepoPkg.NewMongoClinicRepo()
	txRunner := repository.NewMongoTxRunner(database.MongoClient)

	// gateway and cache.
	razorpayGateway := gateway.NewRazorpayGateway(
		config.AppConfig.RazorpayKeyID,
		config.AppConfig.RazorpayKeySecret,
	)
	availabilityCache := &utils.AvailabilityCache{Client: utils.GetCacheClient()}

	// services.
	bookingService := &booking.DefaultBookingService{
		Bookings:   bookingRepo,
		Payments:   paymentRepo,
		Settings:   settingsRepo,
		Treatments: treatmentRepo,
		Clinics:    clinicRepo,
		Gateway:    razorpayGateway,
		Tx:         txRunner,
		Cache:      availabilityCache,
	}

	bookingHandler := handlers.NewBookingHandler(bookingService, utils.GetCacheClient(), logger)

	// Register routes.
	routes.RegisterRoutes(router, bookingHandler)

	// Background sweep for bookings stuck awaiting payment.
	sweeper := cron.InitStaleBookingSweeper(bookingService, bookingRepo)
	defer sweeper.Stop()

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
