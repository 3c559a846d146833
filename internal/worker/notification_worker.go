package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printhaus/printhaus_api/internal/service"
)

// NotificationWorker redelivers undelivered customer emails on a backoff
// schedule.
type NotificationWorker struct {
	notifSvc *service.NotificationService
	interval time.Duration
}

// NewNotificationWorker constructs a NotificationWorker.
func NewNotificationWorker(notifSvc *service.NotificationService, interval time.Duration) *NotificationWorker {
	return &NotificationWorker{
		notifSvc: notifSvc,
		interval: interval,
	}
}

// Start begins the periodic retry loop until context is canceled.
func (w *NotificationWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting notification worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.notifSvc.RetryPending(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to retry pending notifications")
			}
		case <-ctx.Done():
			log.Info().Msg("Notification worker stopped")
			return
		}
	}
}
