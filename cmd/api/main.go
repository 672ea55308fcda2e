package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"printshop/internal/client"
	"printshop/internal/config"
	"printshop/internal/logger"
	"printshop/internal/repository"
	"printshop/internal/server"
	"printshop/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Setup(cfg.Environment.Name, cfg.Log.Level); err != nil {
		fmt.Printf("Failed to set up logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zap.L().Sync() }()

	db, err := client.InitDB(cfg.Database)
	if err != nil {
		zap.S().Fatalf("init database: %v", err)
	}
	stripeClient := client.NewStripeClient(&cfg.Stripe, cfg.Shop.Currency)

	productRepo := repository.NewProductRepository(db)
	variantRepo := repository.NewVariantRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	if cfg.Shop.SeedCatalog {
		ctx := context.Background()
		if err := productRepo.Seed(ctx); err != nil {
			zap.S().Warnf("seed products: %v", err)
		}
		if err := variantRepo.Seed(ctx); err != nil {
			zap.S().Warnf("seed print sizes: %v", err)
		}
	}

	catalogService := service.NewCatalogService(productRepo, variantRepo)
	cartService := service.NewCartService(productRepo, variantRepo)
	checkoutService := service.NewCheckoutService(
		db, stripeClient,
		orderRepo,
		productRepo,
		webhookEventRepo,
		cfg.BaseURL,
		cfg.Shop.Currency,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(cfg, catalogService, cartService, checkoutService)

	zap.S().Infof("Starting HTTP server on %s", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			zap.S().Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	zap.S().Info("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		zap.S().Fatal("HTTP server shutdown error")
	}
}
