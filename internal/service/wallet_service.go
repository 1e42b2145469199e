package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"obazaar/internal/domain"
	"obazaar/internal/models"
	"obazaar/internal/port"
)

// Balance is the tenant-facing view of a wallet.
type Balance struct {
	AvailableCents int64 `json:"available_cents"`
	PendingCents   int64 `json:"pending_cents"`
	TotalCents     int64 `json:"total_cents"`
}

// WalletService converts paid orders into commission-split earnings and
// answers balance reads. It is stateless; all persistence goes through the
// injected stores and every multi-row mutation runs in one DB transaction.
type WalletService struct {
	tx           port.TxManager
	wallets      port.WalletStore
	transactions port.TransactionStore
	orders       port.OrderStore
	events       port.EventPublisher

	defaultCommissionRate float64
	defaultHoldDays       int
	now                   func() time.Time
}

func NewWalletService(
	tx port.TxManager,
	wallets port.WalletStore,
	transactions port.TransactionStore,
	orders port.OrderStore,
	events port.EventPublisher,
	defaultCommissionRate float64,
	defaultHoldDays int,
) *WalletService {
	if defaultCommissionRate <= 0 || defaultCommissionRate >= 1 {
		defaultCommissionRate = domain.DefaultCommissionRate
	}
	if defaultHoldDays <= 0 {
		defaultHoldDays = domain.DefaultHoldPeriodDays
	}
	return &WalletService{
		tx:                    tx,
		wallets:               wallets,
		transactions:          transactions,
		orders:                orders,
		events:                events,
		defaultCommissionRate: defaultCommissionRate,
		defaultHoldDays:       defaultHoldDays,
		now:                   time.Now,
	}
}

// GetOrCreateWallet finds the tenant's wallet, creating it with defaults on
// first use. A concurrent create losing the unique-index race falls back to
// re-fetching the winner's row.
func (s *WalletService) GetOrCreateWallet(ctx context.Context, tenantID uint) (*models.Wallet, error) {
	w, err := s.wallets.GetByTenantID(ctx, tenantID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, domain.ErrWalletNotFound) {
		return nil, err
	}
	w = &models.Wallet{
		TenantID:       tenantID,
		CommissionRate: s.defaultCommissionRate,
		HoldPeriodDays: s.defaultHoldDays,
		IsActive:       true,
	}
	err = s.wallets.Create(ctx, w)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return s.wallets.GetByTenantID(ctx, tenantID)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ProcessOrderEarning credits the vendor wallet for a completed order:
// commission split, pending-balance credit, and an earning ledger row that
// matures after the wallet's hold period. Missing, unpaid, and
// already-processed orders are silent no-ops so retried capture webhooks
// never error.
func (s *WalletService) ProcessOrderEarning(ctx context.Context, orderID uint) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		log.Printf("[Wallet] order %d not found, skipping earning", orderID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch order %d: %w", orderID, err)
	}
	if order.WalletTransactionProcessed {
		log.Printf("[Wallet] order %d already processed", orderID)
		return nil
	}
	if order.PaymentStatus != domain.PaymentStatusCompleted {
		log.Printf("[Wallet] order %d payment not completed (%s)", orderID, order.PaymentStatus)
		return nil
	}

	wallet, err := s.GetOrCreateWallet(ctx, order.TenantID)
	if err != nil {
		return fmt.Errorf("wallet for tenant %d: %w", order.TenantID, err)
	}

	// Commission rate is read from the wallet at processing time, so rate
	// changes apply to orders not yet processed.
	gross := order.AmountPaidCents
	commission := int64(math.Round(float64(gross) * wallet.CommissionRate))
	net := gross - commission
	availableAt := s.now().Add(time.Duration(wallet.HoldPeriodDays) * 24 * time.Hour)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ok, err := s.orders.MarkEarningProcessed(ctx, order.ID, commission, net)
		if err != nil {
			return err
		}
		if !ok {
			// A concurrent call won the flag; this one has nothing to do.
			return nil
		}
		ledger := &models.WalletTransaction{
			WalletID:              wallet.ID,
			Type:                  domain.TxTypeEarning,
			AmountCents:           net,
			GrossAmountCents:      gross,
			CommissionAmountCents: commission,
			Description:           fmt.Sprintf("Earning from order: %s", order.Name),
			Status:                domain.TxStatusCompleted,
			RelatedOrderID:        &order.ID,
			AvailableAt:           &availableAt,
		}
		if err := s.transactions.Create(ctx, ledger); err != nil {
			return err
		}
		return s.wallets.CreditPending(ctx, wallet.ID, net)
	})
	if err != nil {
		return fmt.Errorf("process earning for order %d: %w", orderID, err)
	}

	if s.events != nil {
		s.events.Publish("earning.processed", map[string]interface{}{
			"order_id":         order.ID,
			"tenant_id":        order.TenantID,
			"net_cents":        net,
			"commission_cents": commission,
		})
	}
	log.Printf("[Wallet] processed earning for order %d: %d cents net after %d cents commission", orderID, net, commission)
	return nil
}

// GetWalletBalance is a pure read; tenants without a wallet yet see zeros.
func (s *WalletService) GetWalletBalance(ctx context.Context, tenantID uint) (Balance, error) {
	w, err := s.wallets.GetByTenantID(ctx, tenantID)
	if errors.Is(err, domain.ErrWalletNotFound) {
		return Balance{}, nil
	}
	if err != nil {
		return Balance{}, err
	}
	return Balance{
		AvailableCents: w.AvailableBalanceCents,
		PendingCents:   w.PendingBalanceCents,
		TotalCents:     w.TotalEarningsCents,
	}, nil
}
