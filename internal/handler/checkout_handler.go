package handler

import (
	"context"
	"log"
	"net/http"

	"obazaar/internal/domain"
	"obazaar/internal/middleware"
	"obazaar/internal/models"
	"obazaar/internal/port"
	"obazaar/internal/service"
	"obazaar/pkg/payment"
	"obazaar/pkg/shipping"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler drives the PayPal purchase flow: order creation for buyer
// approval, then capture, which flips orders to paid and hands each one to
// the wallet engine.
type CheckoutHandler struct {
	tx          port.TxManager
	orderRepo   port.OrderStore
	productRepo port.ProductStore
	provider    payment.CheckoutProvider
	walletSvc   *service.WalletService
	queue       port.TaskQueue
}

func NewCheckoutHandler(
	tx port.TxManager,
	orderRepo port.OrderStore,
	productRepo port.ProductStore,
	provider payment.CheckoutProvider,
	walletSvc *service.WalletService,
	queue port.TaskQueue,
) *CheckoutHandler {
	return &CheckoutHandler{
		tx:          tx,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		provider:    provider,
		walletSvc:   walletSvc,
		queue:       queue,
	}
}

type CheckoutItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CreateCheckoutRequest struct {
	Items           []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	RecipientName   string                `json:"recipient_name" binding:"required"`
	ShippingAddress string                `json:"shipping_address" binding:"required"`
}

// CreateOrder validates the cart, opens a PayPal order for buyer approval,
// and records one pending Order per item. Items from different vendors share
// the same PayPal order but settle into separate tenant wallets.
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		lineItems  []payment.CheckoutItem
		products   []*models.Product
		totalCents int64
	)
	for _, item := range req.Items {
		p, err := h.productRepo.GetByID(c.Request.Context(), item.ProductID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if p.TrackInventory && p.Stock < item.Quantity {
			c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock for " + p.Name})
			return
		}
		products = append(products, p)
		lineItems = append(lineItems, payment.CheckoutItem{
			Name:       p.Name,
			PriceCents: p.PriceCents,
			Quantity:   item.Quantity,
		})
		totalCents += p.PriceCents * int64(item.Quantity)
	}

	gatewayOrder, err := h.provider.CreateOrder(c.Request.Context(), lineItems, totalCents)
	if err != nil {
		log.Printf("[Checkout] create order failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
		return
	}

	orders := make([]models.Order, 0, len(req.Items))
	err = h.tx.WithinTx(c.Request.Context(), func(ctx context.Context) error {
		for i, item := range req.Items {
			p := products[i]
			order := models.Order{
				UserID:          userID,
				TenantID:        p.TenantID,
				ProductID:       p.ID,
				Name:            p.Name,
				Quantity:        item.Quantity,
				AmountPaidCents: p.PriceCents * int64(item.Quantity),
				PaymentStatus:   domain.PaymentStatusPending,
				PayPalOrderID:   gatewayOrder.OrderID,
				RecipientName:   req.RecipientName,
				ShippingAddress: req.ShippingAddress,
			}
			if err := h.orderRepo.Create(ctx, &order); err != nil {
				return err
			}
			orders = append(orders, order)
		}
		return nil
	})
	if err != nil {
		log.Printf("[Checkout] persist orders failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create orders"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"paypal_order_id": gatewayOrder.OrderID,
		"approval_url":    gatewayOrder.ApprovalURL,
		"total_cents":     totalCents,
		"orders":          orders,
	})
}

type CaptureRequest struct {
	PayPalOrderID string `json:"paypal_order_id" binding:"required"`
}

// CaptureOrder captures an approved PayPal order and settles every Order
// row attached to it: mark paid, decrement stock, credit the vendor wallet,
// and enqueue shipment creation. Each order is settled independently so one
// failure never blocks the rest; the wallet engine's idempotency flag makes
// the whole endpoint safe to retry.
func (h *CheckoutHandler) CaptureOrder(c *gin.Context) {
	var req CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, err := h.orderRepo.FindByPayPalOrderID(c.Request.Context(), req.PayPalOrderID)
	if err != nil || len(orders) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no orders for this paypal order"})
		return
	}

	capture, err := h.provider.CaptureOrder(c.Request.Context(), req.PayPalOrderID)
	if err != nil {
		log.Printf("[Checkout] capture failed for %s: %v", req.PayPalOrderID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "capture failed"})
		return
	}
	if capture.Status != "COMPLETED" {
		c.JSON(http.StatusConflict, gin.H{"error": "payment not completed", "status": capture.Status})
		return
	}

	settled := make([]uint, 0, len(orders))
	for _, order := range orders {
		if err := h.settleOrder(c.Request.Context(), order, capture.CaptureID); err != nil {
			log.Printf("[Checkout] settle order %d failed: %v", order.ID, err)
			continue
		}
		settled = append(settled, order.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     capture.Status,
		"capture_id": capture.CaptureID,
		"order_ids":  settled,
	})
}

func (h *CheckoutHandler) settleOrder(ctx context.Context, order models.Order, captureID string) error {
	// The guarded paid flip decides which settlement run owns the one-shot
	// side effects. A retried capture observes claimed == false and skips
	// stock and shipment, so the carrier never sees a duplicate task.
	claimed, err := h.orderRepo.MarkPaid(ctx, order.ID, captureID)
	if err != nil {
		return err
	}
	if claimed {
		if err := h.productRepo.DecrementStock(ctx, order.ProductID, order.Quantity); err != nil {
			log.Printf("[Checkout] decrement stock for product %d: %v", order.ProductID, err)
		}
		if err := h.queue.Enqueue(ctx, domain.OutboxTaskShipmentCreate, shipping.ShipmentRequest{
			OrderID:       order.ID,
			TenantID:      order.TenantID,
			ProductName:   order.Name,
			Quantity:      order.Quantity,
			RecipientName: order.RecipientName,
			Address:       order.ShippingAddress,
		}); err != nil {
			log.Printf("[Checkout] enqueue shipment for order %d: %v", order.ID, err)
		}
	}
	if err := h.walletSvc.ProcessOrderEarning(ctx, order.ID); err != nil {
		// Earning failures do not undo the capture; the processed flag stays
		// false so a retry of this endpoint picks the order up again.
		return err
	}
	return nil
}
