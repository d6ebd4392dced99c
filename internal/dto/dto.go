package dto

import "nook-pos/internal/model"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type ProductRequest struct {
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	CostPrice     *int64 `json:"costPrice"`
	DiscountPrice *int64 `json:"discountPrice"`
	Stock         int64  `json:"stock"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	ImageURL      string `json:"imageUrl"`
	ShopeeID      string `json:"shopeeId"`
}

func (r *ProductRequest) ToModel(id string) *model.Product {
	return &model.Product{
		ID:            id,
		Name:          r.Name,
		Price:         r.Price,
		CostPrice:     r.CostPrice,
		DiscountPrice: r.DiscountPrice,
		Stock:         r.Stock,
		Category:      r.Category,
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		ShopeeID:      r.ShopeeID,
	}
}

type DescribeRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type DescribeResponse struct {
	Description string `json:"description"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

type RegisterMemberRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type AddItemRequest struct {
	ProductID string `json:"productId"`
}

type ChangeQuantityRequest struct {
	Delta int64 `json:"delta"`
}

type AttachMemberRequest struct {
	MemberID string `json:"memberId"`
}

type SettingsRequest struct {
	ShopeeApiKey     string `json:"shopeeApiKey"`
	ShopeeShopID     string `json:"shopeeShopId"`
	InvoiceApiKey    string `json:"invoiceApiKey"`
	InvoiceApiSecret string `json:"invoiceApiSecret"`
}

func (r *SettingsRequest) ToModel() model.IntegrationConfig {
	return model.IntegrationConfig{
		ShopeeApiKey:     r.ShopeeApiKey,
		ShopeeShopID:     r.ShopeeShopID,
		InvoiceApiKey:    r.InvoiceApiKey,
		InvoiceApiSecret: r.InvoiceApiSecret,
	}
}

type SyncResponse struct {
	Synced int `json:"synced"`
}
