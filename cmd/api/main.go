package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nook-pos/internal/checkout"
	"nook-pos/internal/client"
	"nook-pos/internal/config"
	"nook-pos/internal/logger"
	"nook-pos/internal/loyalty"
	"nook-pos/internal/model"
	"nook-pos/internal/repository"
	"nook-pos/internal/server"
	"nook-pos/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	os.Exit(exitCode(log, run(cfg, log)))
}

// exitCode reports err and flushes the logger; os.Exit skips deferred calls.
func exitCode(log *zap.Logger, err error) int {
	code := 0
	if err != nil {
		log.Error("server stopped", zap.Error(err))
		code = 1
	}
	_ = log.Sync()
	return code
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := client.InitDatabase(cfg.Database)
	if err != nil {
		return err
	}

	productRepo := repository.NewProductRepository(db)
	memberRepo := repository.NewMemberRepository(db)

	if cfg.Database.Seed {
		ctx := context.Background()
		if err := productRepo.Seed(ctx); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		if err := memberRepo.Seed(ctx); err != nil {
			return fmt.Errorf("seed members: %w", err)
		}
	}

	invoiceClient := client.NewInvoiceClient(&cfg.Invoice)
	marketplaceClient := client.NewMarketplaceClient(&cfg.Shopee)
	aiClient := client.NewAIClient(&cfg.Gemini)

	settingsService := service.NewSettingsService(model.IntegrationConfig{
		ShopeeApiKey:     cfg.Shopee.ApiKey,
		ShopeeShopID:     cfg.Shopee.ShopID,
		InvoiceApiKey:    cfg.Invoice.ApiKey,
		InvoiceApiSecret: cfg.Invoice.ApiSecret,
	}, productRepo, marketplaceClient, log)

	ledger := loyalty.NewLedger(memberRepo, log)
	orchestrator := checkout.NewOrchestrator(
		invoiceClient,
		settingsService,
		ledger,
		cfg.Checkout.InvoiceTimeout,
		log,
	)
	manager := checkout.NewManager(orchestrator, log)

	srv := server.NewServer(server.Services{
		Auth:     service.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Catalog:  service.NewCatalogService(productRepo, aiClient, log),
		Member:   service.NewMemberService(memberRepo),
		Settings: settingsService,
		Pos:      service.NewPosService(manager, productRepo, memberRepo, cfg.Checkout.ConfirmWait, log),
	}, log)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	errCh := make(chan error, 1)
	log.Info("starting HTTP server",
		zap.String("addr", serverAddr),
		zap.String("environment", cfg.Environment.Name),
		zap.String("db_driver", cfg.Database.Driver))
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-sigChan:
	}
	log.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
