package service

import (
	"context"
	"log"
	"time"

	"github.com/seatlab/lab-seat-reservation/internal/repository"
)

// StartCompletedSweep runs the upcoming→completed transition on a
// fixed interval until ctx is cancelled.  The original product never
// assigned "completed" at all; here a reservation completes once its
// 30-minute slot has fully elapsed.  Sweep failures are logged and
// retried on the next tick.
func StartCompletedSweep(ctx context.Context, repo *repository.ReservationRepo, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.SweepCompleted(ctx)
			if err != nil {
				log.Printf("sweeper: completed sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("sweeper: marked %d reservation(s) completed", n)
			}
		}
	}
}
