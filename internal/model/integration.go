package model

type IntegrationConfig struct {
	ShopeeApiKey     string `json:"shopeeApiKey"`
	ShopeeShopID     string `json:"shopeeShopId"`
	InvoiceApiKey    string `json:"invoiceApiKey"`
	InvoiceApiSecret string `json:"invoiceApiSecret"`
}

type InvoiceCredentials struct {
	ApiKey    string
	ApiSecret string
}

// Configured reports whether external invoicing should be attempted.
func (c InvoiceCredentials) Configured() bool {
	return c.ApiKey != ""
}

type MarketplaceCredentials struct {
	ApiKey string
	ShopID string
}

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
