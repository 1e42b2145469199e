package handler

import (
	"errors"
	"net/http"
	"strconv"

	"obazaar/internal/domain"
	"obazaar/internal/repository"
	"obazaar/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the platform operator surface: wallet oversight,
// manual ledger corrections, and on-demand runs of the release and
// disbursement jobs.
type AdminHandler struct {
	walletRepo *repository.WalletRepository
	payoutRepo *repository.PayoutRepository
	releaseSvc *service.ReleaseService
	payoutSvc  *service.PayoutService
}

func NewAdminHandler(
	walletRepo *repository.WalletRepository,
	payoutRepo *repository.PayoutRepository,
	releaseSvc *service.ReleaseService,
	payoutSvc *service.PayoutService,
) *AdminHandler {
	return &AdminHandler{walletRepo: walletRepo, payoutRepo: payoutRepo, releaseSvc: releaseSvc, payoutSvc: payoutSvc}
}

// ListWallets returns every tenant wallet with its balances.
func (h *AdminHandler) ListWallets(c *gin.Context) {
	wallets, err := h.walletRepo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list wallets"})
		return
	}
	var available, pending int64
	for _, w := range wallets {
		available += w.AvailableBalanceCents
		pending += w.PendingBalanceCents
	}
	c.JSON(http.StatusOK, gin.H{
		"wallets":               wallets,
		"total_available_cents": available,
		"total_pending_cents":   pending,
	})
}

type AdjustmentRequest struct {
	DeltaCents  int64  `json:"delta_cents" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// AdjustWallet applies a signed manual correction to a wallet's available
// balance. This is the reconciliation path for failed payouts.
func (h *AdminHandler) AdjustWallet(c *gin.Context) {
	walletID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet id"})
		return
	}
	var req AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ledger, err := h.payoutSvc.ManualAdjustment(c.Request.Context(), uint(walletID), req.DeltaCents, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWalletNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrInsufficientBalance):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "adjustment failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": ledger})
}

type AdminPayoutRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required"`
}

// CreatePayout requests a payout on a vendor's behalf, with the same
// reservation rules as the self-serve endpoint.
func (h *AdminHandler) CreatePayout(c *gin.Context) {
	walletID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet id"})
		return
	}
	var req AdminPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payout, err := h.payoutSvc.RequestPayout(c.Request.Context(), uint(walletID), req.AmountCents)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWalletNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
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

// ReleaseFunds runs the hold-period release job immediately.
func (h *AdminHandler) ReleaseFunds(c *gin.Context) {
	released, err := h.releaseSvc.ProcessScheduledReleases(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "released": released})
		return
	}
	c.JSON(http.StatusOK, gin.H{"released": released})
}

// ProcessPayouts runs the PayPal disbursement job immediately.
func (h *AdminHandler) ProcessPayouts(c *gin.Context) {
	dispatched, failed, err := h.payoutSvc.ProcessPayPalPayouts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dispatched": dispatched, "failed": failed})
}

// ListPayouts returns payouts filtered by status (default pending).
func (h *AdminHandler) ListPayouts(c *gin.Context) {
	status := c.DefaultQuery("status", domain.PayoutStatusPending)
	payouts, err := h.payoutRepo.FindByStatus(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list payouts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": payouts})
}

// GetPayout returns one payout with its gateway identifiers.
func (h *AdminHandler) GetPayout(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payout id"})
		return
	}
	payout, err := h.payoutRepo.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "payout not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payout": payout})
}
