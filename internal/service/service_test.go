package service

import (
	"context"
	"testing"

	"nook-pos/internal/client"
	"nook-pos/internal/config"
	"nook-pos/internal/model"
	"nook-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := client.InitDatabase(config.Database{
		Driver: "sqlite",
		URL:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seededRepos(t *testing.T) (repository.ProductRepository, repository.MemberRepository) {
	t.Helper()
	db := newTestDB(t)
	products := repository.NewProductRepository(db)
	members := repository.NewMemberRepository(db)
	require.NoError(t, products.Seed(context.Background()))
	require.NoError(t, members.Seed(context.Background()))
	return products, members
}

type aiFunc func(ctx context.Context, name, category string) (string, error)

func (f aiFunc) GenerateDescription(ctx context.Context, name, category string) (string, error) {
	return f(ctx, name, category)
}

type recordingMarketplace struct {
	creds    model.MarketplaceCredentials
	products []*model.Product
	err      error
}

func (m *recordingMarketplace) SyncInventory(_ context.Context, creds model.MarketplaceCredentials, products []*model.Product) error {
	m.creds = creds
	m.products = products
	return m.err
}

func int64p(v int64) *int64 { return &v }
