package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nook-pos/internal/config"
	"nook-pos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceClient_IssueInvoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/invoices", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		var req issueInvoiceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "860.00", req.Amount)
		assert.Equal(t, "TWD", req.Currency)

		_ = json.NewEncoder(w).Encode(issueInvoiceResponse{InvoiceNumber: "AB-00000042"})
	}))
	defer srv.Close()

	c := NewInvoiceClient(&config.Invoice{BaseApiURL: srv.URL, Currency: "TWD"})
	id, err := c.IssueInvoice(context.Background(), model.InvoiceCredentials{ApiKey: "key", ApiSecret: "secret"}, 860)

	require.NoError(t, err)
	assert.Equal(t, "AB-00000042", id)
}

func TestInvoiceClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewInvoiceClient(&config.Invoice{BaseApiURL: srv.URL})
	_, err := c.IssueInvoice(context.Background(), model.InvoiceCredentials{ApiKey: "key"}, 100)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestInvoiceClient_Simulated(t *testing.T) {
	c := NewInvoiceClient(&config.Invoice{SimulatedLatency: time.Millisecond})

	id, err := c.IssueInvoice(context.Background(), model.InvoiceCredentials{ApiKey: "key"}, 100)

	require.NoError(t, err)
	assert.Regexp(t, `^AB-\d{8}$`, id)
}

func TestInvoiceClient_SimulatedHonoursContext(t *testing.T) {
	c := NewInvoiceClient(&config.Invoice{SimulatedLatency: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.IssueInvoice(ctx, model.InvoiceCredentials{ApiKey: "key"}, 100)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMarketplaceClient_SyncInventory(t *testing.T) {
	discount := int64(180)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/product/sync", r.URL.Path)
		assert.Equal(t, "Bearer shopee-key", r.Header.Get("Authorization"))

		var req syncRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "shop-9", req.ShopID)
		require.Len(t, req.Items, 1)
		assert.Equal(t, "200.00", req.Items[0].Price)
		assert.Equal(t, "180.00", req.Items[0].Discount)
		assert.Equal(t, int64(50), req.Items[0].Stock)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewMarketplaceClient(&config.Shopee{BaseApiURL: srv.URL})
	err := c.SyncInventory(context.Background(),
		model.MarketplaceCredentials{ApiKey: "shopee-key", ShopID: "shop-9"},
		[]*model.Product{{ID: "1", Name: "Coffee", Price: 200, DiscountPrice: &discount, Stock: 50}},
	)

	assert.NoError(t, err)
}

func TestAIClient_GenerateDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent"))
		assert.Equal(t, "ai-key", r.URL.Query().Get("key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Contents[0].Parts[0].Text, `"Perfect Apple"`)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  Shiny and crisp.  "}]}}]}`))
	}))
	defer srv.Close()

	c := NewAIClient(&config.Gemini{BaseApiURL: srv.URL, ApiKey: "ai-key", Model: "gemini-test"})
	text, err := c.GenerateDescription(context.Background(), "Perfect Apple", "Fruit")

	require.NoError(t, err)
	assert.Equal(t, "Shiny and crisp.", text)
}

func TestAIClient_Disabled(t *testing.T) {
	c := NewAIClient(&config.Gemini{})

	_, err := c.GenerateDescription(context.Background(), "Apple", "Fruit")

	assert.ErrorIs(t, err, ErrAIDisabled)
}

func TestInitDatabase_UnsupportedDriver(t *testing.T) {
	_, err := InitDatabase(config.Database{Driver: "oracle"})
	assert.Error(t, err)
}
