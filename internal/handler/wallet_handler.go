package handler

import (
	"errors"
	"net/http"

	"obazaar/internal/domain"
	"obazaar/internal/middleware"
	"obazaar/internal/repository"
	"obazaar/internal/service"

	"github.com/gin-gonic/gin"
)

// WalletHandler is the vendor-facing wallet surface: balance, ledger history,
// and payout requests, always scoped to the caller's tenant.
type WalletHandler struct {
	walletSvc  *service.WalletService
	payoutSvc  *service.PayoutService
	txRepo     *repository.TransactionRepository
	payoutRepo *repository.PayoutRepository
}

func NewWalletHandler(
	walletSvc *service.WalletService,
	payoutSvc *service.PayoutService,
	txRepo *repository.TransactionRepository,
	payoutRepo *repository.PayoutRepository,
) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc, payoutSvc: payoutSvc, txRepo: txRepo, payoutRepo: payoutRepo}
}

// GetWallet returns the vendor's balance, recent ledger rows, and any payout
// requests still in flight.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "no tenant for this account"})
		return
	}
	wallet, err := h.walletSvc.GetOrCreateWallet(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	transactions, err := h.txRepo.ListByWallet(c.Request.Context(), wallet.ID, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	openPayouts, err := h.payoutRepo.ListOpenByWallet(c.Request.Context(), wallet.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wallet": gin.H{
			"id":                      wallet.ID,
			"available_balance_cents": wallet.AvailableBalanceCents,
			"pending_balance_cents":   wallet.PendingBalanceCents,
			"total_earnings_cents":    wallet.TotalEarningsCents,
			"total_withdrawn_cents":   wallet.TotalWithdrawnCents,
			"commission_rate":         wallet.CommissionRate,
			"hold_period_days":        wallet.HoldPeriodDays,
			"is_active":               wallet.IsActive,
		},
		"transactions": transactions,
		"open_payouts": openPayouts,
	})
}

type PayoutRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required"`
}

// RequestPayout reserves funds from the vendor's available balance and
// queues a payout for the next disbursement run.
func (h *WalletHandler) RequestPayout(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "no tenant for this account"})
		return
	}
	var req PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wallet, err := h.walletSvc.GetOrCreateWallet(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	payout, err := h.payoutSvc.RequestPayout(c.Request.Context(), wallet.ID, req.AmountCents)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrInsufficientBalance):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrWalletInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payout request failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payout": payout})
}
