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

// PayoutService reserves funds for withdrawal requests and disburses pending
// payouts through the external payment rail.
type PayoutService struct {
	tx           port.TxManager
	wallets      port.WalletStore
	payouts      port.PayoutStore
	transactions port.TransactionStore
	tenants      port.TenantStore
	gateway      port.PayoutGateway
	events       port.EventPublisher

	now func() time.Time
}

func NewPayoutService(
	tx port.TxManager,
	wallets port.WalletStore,
	payouts port.PayoutStore,
	transactions port.TransactionStore,
	tenants port.TenantStore,
	gateway port.PayoutGateway,
	events port.EventPublisher,
) *PayoutService {
	return &PayoutService{
		tx:           tx,
		wallets:      wallets,
		payouts:      payouts,
		transactions: transactions,
		tenants:      tenants,
		gateway:      gateway,
		events:       events,
		now:          time.Now,
	}
}

// RequestPayout validates and reserves amountCents against the wallet's
// available balance, creating a pending Payout. The funds leave the
// available balance at creation time, so a second concurrent request cannot
// spend them: the reservation is a guarded conditional decrement, not a
// read-then-write.
func (s *PayoutService) RequestPayout(ctx context.Context, walletID uint, amountCents int64) (*models.Payout, error) {
	wallet, err := s.wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsActive {
		return nil, domain.ErrWalletInactive
	}
	if amountCents <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if wallet.AvailableBalanceCents < amountCents {
		return nil, domain.ErrInsufficientBalance
	}

	tenant, err := s.tenants.GetByID(ctx, wallet.TenantID)
	if err != nil {
		return nil, err
	}
	method := tenant.PreferredPayoutMethod
	if tenant.PayPalEmail != "" {
		method = domain.PayoutMethodPayPal
	}
	if method == "" {
		method = domain.PayoutMethodManual
	}

	payout := &models.Payout{
		WalletID:       walletID,
		AmountCents:    amountCents,
		Method:         method,
		Status:         domain.PayoutStatusPending,
		RequestedAt:    s.now(),
		RecipientEmail: tenant.PayPalEmail,
		BankDetails:    tenant.BankDetails,
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.wallets.ReserveAvailable(ctx, walletID, amountCents); err != nil {
			return err
		}
		if err := s.payouts.Create(ctx, payout); err != nil {
			return err
		}
		return s.transactions.Create(ctx, &models.WalletTransaction{
			WalletID:        walletID,
			Type:            domain.TxTypePayout,
			AmountCents:     -amountCents, // debit
			Description:     fmt.Sprintf("Payout request #%d", payout.ID),
			Status:          domain.TxStatusCompleted,
			RelatedPayoutID: &payout.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Publish("payout.requested", map[string]interface{}{
			"payout_id":    payout.ID,
			"wallet_id":    walletID,
			"amount_cents": amountCents,
			"method":       method,
		})
	}
	log.Printf("[Payout] reserved %d cents from wallet %d for payout %d (%s)", amountCents, walletID, payout.ID, method)
	return payout, nil
}

// ProcessPayPalPayouts dispatches every pending PayPal payout. Items are
// processed independently: a gateway failure marks that payout failed and
// the batch moves on. Reserved funds are NOT auto-restored on failure;
// operators reconcile failed payouts via a manual adjustment.
func (s *PayoutService) ProcessPayPalPayouts(ctx context.Context) (dispatched, failed int, err error) {
	pending, err := s.payouts.FindPending(ctx, domain.PayoutMethodPayPal)
	if err != nil {
		return 0, 0, fmt.Errorf("find pending payouts: %w", err)
	}
	for _, p := range pending {
		if p.RecipientEmail == "" {
			log.Printf("[Payout] payout %d missing recipient email, leaving pending", p.ID)
			continue
		}
		note := fmt.Sprintf("Marketplace payout - $%d.%02d", p.AmountCents/100, p.AmountCents%100)
		res, sendErr := s.gateway.SendPayout(ctx, p.RecipientEmail, p.AmountCents, note)
		now := s.now()
		if sendErr != nil {
			log.Printf("[Payout] dispatch failed for payout %d: %v", p.ID, sendErr)
			if markErr := s.payouts.MarkFailed(ctx, p.ID, sendErr.Error(), now); markErr != nil {
				log.Printf("[Payout] mark failed for payout %d: %v", p.ID, markErr)
			}
			s.publishStatus(p.ID, domain.PayoutStatusFailed)
			failed++
			continue
		}
		if markErr := s.payouts.MarkProcessing(ctx, p.ID, res.BatchID, res.ItemID, now); markErr != nil {
			log.Printf("[Payout] mark processing for payout %d: %v", p.ID, markErr)
			continue
		}
		s.publishStatus(p.ID, domain.PayoutStatusProcessing)
		log.Printf("[Payout] dispatched payout %d, batch %s", p.ID, res.BatchID)
		dispatched++
	}
	return dispatched, failed, nil
}

// ManualAdjustment applies a signed operator correction to the available
// balance and records it in the ledger. This is the reconciliation path for
// failed payouts, whose reservations are never restored automatically.
func (s *PayoutService) ManualAdjustment(ctx context.Context, walletID uint, deltaCents int64, description string) (*models.WalletTransaction, error) {
	if deltaCents == 0 {
		return nil, domain.ErrInvalidAmount
	}
	if _, err := s.wallets.GetByID(ctx, walletID); err != nil {
		return nil, err
	}
	ledger := &models.WalletTransaction{
		WalletID:    walletID,
		Type:        domain.TxTypeManualAdjustment,
		AmountCents: deltaCents,
		Description: description,
		Status:      domain.TxStatusCompleted,
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.wallets.AdjustAvailable(ctx, walletID, deltaCents); err != nil {
			return err
		}
		return s.transactions.Create(ctx, ledger)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Payout] manual adjustment of %d cents on wallet %d", deltaCents, walletID)
	return ledger, nil
}

func (s *PayoutService) publishStatus(payoutID uint, status string) {
	if s.events == nil {
		return
	}
	s.events.Publish("payout.status", map[string]interface{}{
		"payout_id": payoutID,
		"status":    status,
	})
}
