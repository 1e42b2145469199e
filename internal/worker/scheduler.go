// Package worker runs the timer-driven wallet maintenance loops: hold-period
// releases and PayPal payout disbursement.
package worker

import (
	"context"
	"log"
	"time"

	"obazaar/internal/service"
)

type Scheduler struct {
	releases *service.ReleaseService
	payouts  *service.PayoutService

	releaseEvery time.Duration
	payoutEvery  time.Duration
	payoutsOn    bool
}

func NewScheduler(releases *service.ReleaseService, payouts *service.PayoutService, releaseEvery, payoutEvery time.Duration, payoutsOn bool) *Scheduler {
	if releaseEvery <= 0 {
		releaseEvery = 10 * time.Minute
	}
	if payoutEvery <= 0 {
		payoutEvery = time.Hour
	}
	return &Scheduler{
		releases:     releases,
		payouts:      payouts,
		releaseEvery: releaseEvery,
		payoutEvery:  payoutEvery,
		payoutsOn:    payoutsOn,
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	releaseTick := time.NewTicker(s.releaseEvery)
	payoutTick := time.NewTicker(s.payoutEvery)
	defer releaseTick.Stop()
	defer payoutTick.Stop()
	log.Printf("[Scheduler] releases every %s, payouts every %s (enabled=%v)", s.releaseEvery, s.payoutEvery, s.payoutsOn)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[Scheduler] stopping")
			return
		case <-releaseTick.C:
			if n, err := s.releases.ProcessScheduledReleases(ctx); err != nil {
				log.Printf("[Scheduler] releases: %v", err)
			} else if n > 0 {
				log.Printf("[Scheduler] released %d matured transactions", n)
			}
		case <-payoutTick.C:
			if !s.payoutsOn {
				continue
			}
			if ok, failed, err := s.payouts.ProcessPayPalPayouts(ctx); err != nil {
				log.Printf("[Scheduler] payouts: %v", err)
			} else if ok+failed > 0 {
				log.Printf("[Scheduler] dispatched %d payouts, %d failed", ok, failed)
			}
		}
	}
}
