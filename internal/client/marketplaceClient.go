package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"nook-pos/internal/config"
	"nook-pos/internal/model"

	"github.com/shopspring/decimal"
)

type MarketplaceClient interface {
	SyncInventory(ctx context.Context, creds model.MarketplaceCredentials, products []*model.Product) error
}

type marketplaceClientImpl struct {
	httpClient *http.Client
	baseApiURL string
}

type syncItem struct {
	ItemSKU  string `json:"item_sku"`
	ItemID   string `json:"item_id,omitempty"`
	Name     string `json:"item_name"`
	Price    string `json:"original_price"`
	Discount string `json:"discount_price,omitempty"`
	Stock    int64  `json:"stock"`
}

type syncRequest struct {
	ShopID string     `json:"shop_id"`
	Items  []syncItem `json:"items"`
}

func NewMarketplaceClient(cfg *config.Shopee) MarketplaceClient {
	if cfg.BaseApiURL == "" {
		return &simulatedMarketplaceClient{latency: cfg.SimulatedLatency}
	}

	return &marketplaceClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: cfg.BaseApiURL,
	}
}

func (c *marketplaceClientImpl) SyncInventory(ctx context.Context, creds model.MarketplaceCredentials, products []*model.Product) error {
	payload := syncRequest{ShopID: creds.ShopID, Items: make([]syncItem, 0, len(products))}
	for _, p := range products {
		item := syncItem{
			ItemSKU: p.ID,
			ItemID:  p.ShopeeID,
			Name:    p.Name,
			Price:   decimal.NewFromInt(p.Price).StringFixed(2),
			Stock:   p.Stock,
		}
		if p.DiscountPrice != nil {
			item.Discount = decimal.NewFromInt(*p.DiscountPrice).StringFixed(2)
		}
		payload.Items = append(payload.Items, item)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/api/v2/product/sync", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("marketplace sync request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("marketplace error %d: %s", resp.StatusCode, string(b))
	}

	return nil
}

type simulatedMarketplaceClient struct {
	latency time.Duration
}

func (c *simulatedMarketplaceClient) SyncInventory(ctx context.Context, _ model.MarketplaceCredentials, _ []*model.Product) error {
	select {
	case <-time.After(c.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
