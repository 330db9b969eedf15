package cron

import (
	"context"
	"time"

	"clinicbook/config"
	bookingRepo "clinicbook/database/repository/booking"
	"clinicbook/services/booking"
	"clinicbook/utils"

	cronv3 "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// InitStaleBookingSweeper starts the background job that cancels bookings
// stuck in "Payment Not Completed" past the configured payment window, so the
// slots they hold go back into circulation even when the client-side cancel
// hook never fired.
func InitStaleBookingSweeper(svc booking.BookingService, repo bookingRepo.BookingRepository) *cronv3.Cron {
	logger := utils.GetLogger()

	c := cronv3.New()
	_, err := c.AddFunc("@every 5m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		ttl := time.Duration(config.AppConfig.PendingPaymentTTLMin) * time.Minute
		swept := sweepStale(ctx, svc, repo, time.Now().Add(-ttl))
		if swept > 0 {
			logger.Info("stale bookings swept", zap.Int("count", swept))
		}
	})
	if err != nil {
		logger.Fatal("failed to schedule stale booking sweeper", zap.Error(err))
	}

	c.Start()
	logger.Info("stale booking sweeper started")
	return c
}

// sweepStale cancels every pending booking older than the cutoff and returns
// the number of bookings it processed.
func sweepStale(ctx context.Context, svc booking.BookingService, repo bookingRepo.BookingRepository, cutoff time.Time) int {
	logger := utils.GetLogger()

	stale, err := repo.ListStalePending(ctx, cutoff)
	if err != nil {
		logger.Error("stale booking sweep failed", zap.Error(err))
		return 0
	}
	for _, bk := range stale {
		if err := svc.HandlePaymentFailure(ctx, bk.ID, bk.PaymentID, "payment window expired"); err != nil {
			logger.Error("failed to cancel stale booking",
				zap.String("bookingID", bk.ID), zap.Error(err))
		}
	}
	return len(stale)
}
