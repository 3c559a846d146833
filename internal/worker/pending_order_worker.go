package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printhaus/printhaus_api/internal/repository"
)

// PendingOrderWorker sweeps for orders stuck in `pending` longer than maxAge,
// which usually means the buyer abandoned payment. Pending orders have no
// legal path to cancelled, so the sweep only reports them for operator review
// rather than transitioning anything.
type PendingOrderWorker struct {
	orderRepo *repository.OrderRepository
	interval  time.Duration
	maxAge    time.Duration
}

// NewPendingOrderWorker constructs a PendingOrderWorker.
func NewPendingOrderWorker(orderRepo *repository.OrderRepository, interval, maxAge time.Duration) *PendingOrderWorker {
	return &PendingOrderWorker{
		orderRepo: orderRepo,
		interval:  interval,
		maxAge:    maxAge,
	}
}

// Start begins the periodic sweep loop until context is canceled.
func (w *PendingOrderWorker) Start(ctx context.Context) {
	log.Info().
		Dur("interval", w.interval).
		Dur("max_age", w.maxAge).
		Msg("Starting pending order worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run()
		case <-ctx.Done():
			log.Info().Msg("Pending order worker stopped")
			return
		}
	}
}

func (w *PendingOrderWorker) run() {
	stale, err := w.orderRepo.GetStalePending(w.maxAge)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get stale pending orders")
		return
	}
	if len(stale) == 0 {
		return
	}

	log.Warn().Int("count", len(stale)).Msg("Orders stuck in pending beyond max age")
	for i := range stale {
		o := &stale[i]
		log.Warn().
			Str("order_number", o.OrderNumber).
			Str("customer_email", o.CustomerEmail).
			Dur("age", time.Since(o.CreatedAt)).
			Msg("Stale pending order")
	}
}
