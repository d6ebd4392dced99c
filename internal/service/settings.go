package service

import (
	"context"
	"fmt"
	"sync"

	"nook-pos/internal/client"
	"nook-pos/internal/model"
	"nook-pos/internal/repository"

	"go.uber.org/zap"
)

// SettingsService holds the integration credentials entered by an admin.
// They live in memory and start from the environment.
type SettingsService interface {
	Get() model.IntegrationConfig
	Update(cfg model.IntegrationConfig) model.IntegrationConfig
	InvoiceCredentials() model.InvoiceCredentials
	SyncMarketplace(ctx context.Context) (int, error)
}

type settingsServiceImpl struct {
	productRepo repository.ProductRepository
	marketplace client.MarketplaceClient
	logger      *zap.Logger

	mu  sync.RWMutex
	cfg model.IntegrationConfig
}

func NewSettingsService(
	initial model.IntegrationConfig,
	productRepo repository.ProductRepository,
	marketplace client.MarketplaceClient,
	logger *zap.Logger,
) SettingsService {
	return &settingsServiceImpl{
		productRepo: productRepo,
		marketplace: marketplace,
		logger:      logger,
		cfg:         initial,
	}
}

func (s *settingsServiceImpl) Get() model.IntegrationConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *settingsServiceImpl) Update(cfg model.IntegrationConfig) model.IntegrationConfig {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	s.logger.Info("integration settings updated",
		zap.Bool("invoice_configured", cfg.InvoiceApiKey != ""),
		zap.Bool("shopee_configured", cfg.ShopeeApiKey != ""))
	return cfg
}

func (s *settingsServiceImpl) InvoiceCredentials() model.InvoiceCredentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.InvoiceCredentials{
		ApiKey:    s.cfg.InvoiceApiKey,
		ApiSecret: s.cfg.InvoiceApiSecret,
	}
}

// SyncMarketplace pushes the whole catalog to the marketplace and reports
// how many products were sent.
func (s *settingsServiceImpl) SyncMarketplace(ctx context.Context) (int, error) {
	cfg := s.Get()
	if cfg.ShopeeApiKey == "" {
		return 0, ErrMissingCredentials
	}

	products, err := s.productRepo.List(ctx, "", "")
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}

	creds := model.MarketplaceCredentials{ApiKey: cfg.ShopeeApiKey, ShopID: cfg.ShopeeShopID}
	if err := s.marketplace.SyncInventory(ctx, creds, products); err != nil {
		return 0, fmt.Errorf("sync inventory: %w", err)
	}

	s.logger.Info("marketplace inventory synced", zap.Int("count", len(products)))
	return len(products), nil
}
