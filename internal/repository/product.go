package repository

import (
	"context"
	"strings"

	"nook-pos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error)
	List(ctx context.Context, category, search string) ([]*model.Product, error)
	Save(ctx context.Context, product *model.Product) error
	CreateBatch(ctx context.Context, products []*model.Product) error
	Delete(ctx context.Context, productID string) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func int64Ptr(v int64) *int64 { return &v }

func (r *productRepoImpl) Seed(ctx context.Context) error {
	products := []model.Product{
		{ID: "1", Name: "Nook Blend Coffee", Price: 200, CostPrice: int64Ptr(50), DiscountPrice: int64Ptr(180), Stock: 50, Category: "Drinks", Description: "Hand-brewed house blend with a hint of bells."},
		{ID: "2", Name: "Perfect Apple", Price: 500, CostPrice: int64Ptr(100), Stock: 20, Category: "Fruit", Description: "Looks like any apple, only shinier."},
		{ID: "3", Name: "DIY Workbench", Price: 1500, CostPrice: int64Ptr(800), DiscountPrice: int64Ptr(1200), Stock: 5, Category: "Furniture", Description: "A sturdy bench made of wood."},
		{ID: "4", Name: "Nook Miles Ticket", Price: 2000, CostPrice: int64Ptr(200), Stock: 100, Category: "Tickets", Description: "Your flight to a deserted island."},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, translate(err)
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

// List filters by exact category (empty = all) and a case-insensitive name search.
func (r *productRepoImpl) List(ctx context.Context, category, search string) ([]*model.Product, error) {
	query := r.db.WithContext(ctx).Order("id")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var products []*model.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) Save(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// CreateBatch inserts all products in one transaction; existing ids are overwritten.
func (r *productRepoImpl) CreateBatch(ctx context.Context, products []*model.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&products).Error
	})
}

func (r *productRepoImpl) Delete(ctx context.Context, productID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", productID).
		Delete(&model.Product{})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
