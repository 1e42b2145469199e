package router

import (
	"time"

	"obazaar/config"
	"obazaar/internal/domain"
	"obazaar/internal/handler"
	"obazaar/internal/middleware"
	"obazaar/internal/outbox"
	"obazaar/internal/port"
	"obazaar/internal/repository"
	"obazaar/internal/service"
	"obazaar/internal/ws"
	"obazaar/pkg/cloudinary"
	"obazaar/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Services are the wallet engine entry points the background scheduler
// shares with the HTTP layer.
type Services struct {
	Wallet  *service.WalletService
	Release *service.ReleaseService
	Payout  *service.PayoutService
}

func Setup(
	cfg *config.Config,
	db *gorm.DB,
	cloud cloudinary.Client,
	checkout payment.CheckoutProvider,
	gateway port.PayoutGateway,
	hub *ws.EventHub,
	queue *outbox.Queue,
) (*gin.Engine, *Services) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)

	// Services
	walletSvc := service.NewWalletService(txManager, walletRepo, txRepo, orderRepo, hub,
		cfg.Wallet.DefaultCommissionRate, cfg.Wallet.HoldPeriodDays)
	releaseSvc := service.NewReleaseService(txManager, walletRepo, txRepo, hub)
	payoutSvc := service.NewPayoutService(txManager, walletRepo, payoutRepo, txRepo, tenantRepo, gateway, hub)
	authSvc := service.NewAuthService(cfg, userRepo, tenantRepo, walletSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	checkoutHandler := handler.NewCheckoutHandler(txManager, orderRepo, productRepo, checkout, walletSvc, queue)
	walletHandler := handler.NewWalletHandler(walletSvc, payoutSvc, txRepo, payoutRepo)
	adminHandler := handler.NewAdminHandler(walletRepo, payoutRepo, releaseSvc, payoutSvc)
	productHandler := handler.NewProductHandler(productRepo, tenantRepo, cloud)

	authMw := middleware.AuthRequired(&cfg.JWT)
	vendorMw := middleware.RequireRole(domain.RoleVendor)
	adminMw := middleware.RequireRole(domain.RoleSuperAdmin)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		api.GET("/stores/:slug/products", productHandler.ListByStore)

		checkoutGroup := api.Group("/checkout")
		checkoutGroup.Use(authMw)
		{
			checkoutGroup.POST("/paypal", checkoutHandler.CreateOrder)
			checkoutGroup.POST("/paypal/capture", checkoutHandler.CaptureOrder)
		}

		vendor := api.Group("/vendor")
		vendor.Use(authMw, vendorMw)
		{
			vendor.GET("/wallet", walletHandler.GetWallet)
			vendor.POST("/wallet/payouts", walletHandler.RequestPayout)
			vendor.GET("/products", productHandler.ListOwn)
			vendor.POST("/products", productHandler.Create)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/wallets", adminHandler.ListWallets)
			admin.POST("/wallets/:id/adjustments", adminHandler.AdjustWallet)
			admin.POST("/wallets/:id/payouts", adminHandler.CreatePayout)
			admin.POST("/release-funds", adminHandler.ReleaseFunds)
			admin.POST("/process-payouts", adminHandler.ProcessPayouts)
			admin.GET("/payouts", adminHandler.ListPayouts)
			admin.GET("/payouts/:id", adminHandler.GetPayout)
		}

		// Live wallet event feed for the admin dashboard; token via query param.
		api.GET("/admin/events/ws", ws.UpgradeEventsWS(&cfg.JWT, hub))
	}

	return r, &Services{Wallet: walletSvc, Release: releaseSvc, Payout: payoutSvc}
}
