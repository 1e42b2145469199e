package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"obazaar/internal/middleware"
	"obazaar/internal/models"
	"obazaar/internal/repository"
	"obazaar/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productRepo *repository.ProductRepository
	tenantRepo  *repository.TenantRepository
	uploads     cloudinary.Client
}

func NewProductHandler(productRepo *repository.ProductRepository, tenantRepo *repository.TenantRepository, uploads cloudinary.Client) *ProductHandler {
	return &ProductHandler{productRepo: productRepo, tenantRepo: tenantRepo, uploads: uploads}
}

// Create adds a product to the vendor's storefront. Accepts multipart form
// data with an optional "image" file uploaded to the CDN.
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "no tenant for this account"})
		return
	}
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	priceCents, err := strconv.ParseInt(c.PostForm("price_cents"), 10, 64)
	if err != nil || priceCents <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price_cents must be a positive integer"})
		return
	}
	stock, _ := strconv.Atoi(c.DefaultPostForm("stock", "0"))
	trackInventory := c.DefaultPostForm("track_inventory", "false") == "true"

	product := &models.Product{
		TenantID:       tenantID,
		Name:           name,
		Description:    c.PostForm("description"),
		PriceCents:     priceCents,
		Stock:          stock,
		TrackInventory: trackInventory,
	}

	if file, err := c.FormFile("image"); err == nil && h.uploads != nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
			return
		}
		defer f.Close()
		publicID := fmt.Sprintf("tenant_%d_%d", tenantID, time.Now().UnixNano())
		url, _, err := h.uploads.UploadImage(c.Request.Context(), f, "products", publicID)
		if err != nil {
			log.Printf("[Product] image upload failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
			return
		}
		product.ImageURL = url
	}

	if err := h.productRepo.Create(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create product"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// ListOwn returns the vendor's own catalogue.
func (h *ProductHandler) ListOwn(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "no tenant for this account"})
		return
	}
	products, err := h.productRepo.ListByTenant(c.Request.Context(), tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// ListByStore is the public storefront catalogue, addressed by tenant slug.
func (h *ProductHandler) ListByStore(c *gin.Context) {
	tenant, err := h.tenantRepo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
		return
	}
	if !tenant.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
		return
	}
	products, err := h.productRepo.ListByTenant(c.Request.Context(), tenant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"store": tenant, "products": products})
}
