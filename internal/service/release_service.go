package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"obazaar/internal/domain"
	"obazaar/internal/models"
	"obazaar/internal/port"
)

// ReleaseService matures earning transactions whose hold period has elapsed,
// moving their amounts from pending to available balance. Each release is
// independent; one failure never aborts the batch.
type ReleaseService struct {
	tx           port.TxManager
	wallets      port.WalletStore
	transactions port.TransactionStore
	events       port.EventPublisher

	batchLimit int
	now        func() time.Time
}

func NewReleaseService(
	tx port.TxManager,
	wallets port.WalletStore,
	transactions port.TransactionStore,
	events port.EventPublisher,
) *ReleaseService {
	return &ReleaseService{
		tx:           tx,
		wallets:      wallets,
		transactions: transactions,
		events:       events,
		batchLimit:   500,
		now:          time.Now,
	}
}

// ProcessScheduledReleases releases every matured, not-yet-released earning
// transaction. Returns how many were released.
func (s *ReleaseService) ProcessScheduledReleases(ctx context.Context) (int, error) {
	now := s.now()
	txs, err := s.transactions.FindReleasable(ctx, now, s.batchLimit)
	if err != nil {
		return 0, fmt.Errorf("find releasable transactions: %w", err)
	}
	released := 0
	for _, t := range txs {
		claimed, err := s.release(ctx, t, now)
		if err != nil {
			log.Printf("[Release] transaction %d: %v", t.ID, err)
			continue
		}
		if claimed {
			released++
		}
	}
	return released, nil
}

// release returns whether this run claimed the row; a row claimed by a
// concurrent run between the find and the stamp is not counted and gets no
// event.
func (s *ReleaseService) release(ctx context.Context, t models.WalletTransaction, now time.Time) (bool, error) {
	claimed := false
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// The guarded ReleasedAt stamp is the idempotence barrier: if the
		// scheduler re-runs concurrently, only one run gets the row.
		ok, err := s.transactions.MarkReleased(ctx, t.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		claimed = true
		if err := s.wallets.ReleasePending(ctx, t.WalletID, t.AmountCents); err != nil {
			return err
		}
		return s.transactions.Create(ctx, &models.WalletTransaction{
			WalletID:    t.WalletID,
			Type:        domain.TxTypeHoldRelease,
			AmountCents: t.AmountCents,
			Description: fmt.Sprintf("Hold period release for transaction %d", t.ID),
			Status:      domain.TxStatusCompleted,
		})
	})
	if err != nil || !claimed {
		return false, err
	}
	if s.events != nil {
		s.events.Publish("funds.released", map[string]interface{}{
			"wallet_id":    t.WalletID,
			"amount_cents": t.AmountCents,
		})
	}
	log.Printf("[Release] released %d cents for wallet %d (transaction %d)", t.AmountCents, t.WalletID, t.ID)
	return true, nil
}
