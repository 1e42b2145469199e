package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"obazaar/config"
	"obazaar/internal/database"
	"obazaar/internal/domain"
	"obazaar/internal/outbox"
	"obazaar/internal/router"
	"obazaar/internal/worker"
	"obazaar/internal/ws"
	"obazaar/pkg/cloudinary"
	"obazaar/pkg/payment"
	"obazaar/pkg/shipping"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file, using environment as-is")
	}
	cfg := config.Load()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := database.SeedAdmin(db, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	var cloud cloudinary.Client
	if cfg.Cloudinary.CloudName != "" {
		cloud, err = cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.Fatalf("cloudinary: %v", err)
		}
	}

	paypal := payment.NewPayPalClient(cfg.PayPal.BaseURL, cfg.PayPal.ClientID, cfg.PayPal.ClientSecret)
	shippingClient := shipping.NewHTTPClient(cfg.Shipping.BaseURL, cfg.Shipping.APIKey)

	hub := ws.NewEventHub()
	queue := outbox.NewQueue(db)

	engine, services := router.Setup(cfg, db, cloud, paypal, paypal, hub, queue)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outboxWorker := outbox.NewWorker(queue, 30*time.Second)
	outboxWorker.Register(domain.OutboxTaskShipmentCreate, func(ctx context.Context, payload []byte) error {
		var req shipping.ShipmentRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return err
		}
		shipment, err := shippingClient.CreateShipment(ctx, req)
		if err != nil {
			return err
		}
		log.Printf("[Shipping] shipment %s created for order %d", shipment.TrackingID, req.OrderID)
		return nil
	})
	go outboxWorker.Run(ctx)

	scheduler := worker.NewScheduler(services.Release, services.Payout,
		cfg.Wallet.ReleaseInterval, cfg.Wallet.PayoutInterval, cfg.Wallet.PayoutsEnabled)
	go scheduler.Run(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
