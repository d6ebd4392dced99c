package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"nook-pos/internal/config"
	"nook-pos/internal/model"

	"github.com/shopspring/decimal"
)

type InvoiceClient interface {
	IssueInvoice(ctx context.Context, creds model.InvoiceCredentials, amount int64) (string, error)
}

type invoiceClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	currency   string
}

type issueInvoiceRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type issueInvoiceResponse struct {
	InvoiceNumber string `json:"invoice_number"`
}

// NewInvoiceClient talks to the e-invoice API, or simulates it when no base
// URL is configured.
func NewInvoiceClient(cfg *config.Invoice) InvoiceClient {
	if cfg.BaseApiURL == "" {
		return &simulatedInvoiceClient{latency: cfg.SimulatedLatency}
	}

	return &invoiceClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: cfg.BaseApiURL,
		currency:   cfg.Currency,
	}
}

func (c *invoiceClientImpl) IssueInvoice(ctx context.Context, creds model.InvoiceCredentials, amount int64) (string, error) {
	payload := issueInvoiceRequest{
		Amount:   decimal.NewFromInt(amount).StringFixed(2),
		Currency: c.currency,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/v1/invoices", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.SetBasicAuth(creds.ApiKey, creds.ApiSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("invoice request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("invoice error %d: %s", resp.StatusCode, string(b))
	}

	var result issueInvoiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode invoice response: %w", err)
	}
	if result.InvoiceNumber == "" {
		return "", fmt.Errorf("invoice response without invoice number")
	}

	return result.InvoiceNumber, nil
}

type simulatedInvoiceClient struct {
	latency time.Duration
}

func (c *simulatedInvoiceClient) IssueInvoice(ctx context.Context, _ model.InvoiceCredentials, _ int64) (string, error) {
	select {
	case <-time.After(c.latency):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return fmt.Sprintf("AB-%08d", rand.Intn(100_000_000)), nil
}
