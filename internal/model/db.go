package model

type Product struct {
	ID            string `gorm:"primaryKey;size:64;not null" json:"id"`
	Name          string `gorm:"size:128;not null" json:"name"`
	Price         int64  `gorm:"not null" json:"price"`                 // list price
	CostPrice     *int64 `json:"costPrice,omitempty"`                   // informational only
	DiscountPrice *int64 `json:"discountPrice,omitempty"`               // effective price when set
	Stock         int64  `gorm:"not null;default:0" json:"stock"`       // never decremented by a sale
	Category      string `gorm:"size:64;index;not null" json:"category"`
	Description   string `gorm:"size:512" json:"description,omitempty"`
	ImageURL      string `gorm:"size:256" json:"imageUrl,omitempty"`
	ShopeeID      string `gorm:"size:64" json:"shopeeId,omitempty"`
}

type Member struct {
	ID       string        `gorm:"primaryKey;size:64;not null" json:"id"`
	Name     string        `gorm:"size:128;not null" json:"name"`
	Phone    string        `gorm:"size:32;index;not null" json:"phone"`
	Points   int64         `gorm:"not null;default:0" json:"points"`
	JoinDate string        `gorm:"size:10;not null" json:"joinDate"` // YYYY-MM-DD
	History  []Transaction `gorm:"foreignKey:MemberID;references:ID" json:"history"`
}

// Transaction rows only exist for checkouts with an attached member.
type Transaction struct {
	Seq            uint       `gorm:"primaryKey;autoIncrement" json:"-"`
	ID             string     `gorm:"column:invoice_id;size:64;index;not null" json:"id"` // invoice number
	MemberID       string     `gorm:"size:64;index" json:"-"`
	Date           string     `gorm:"size:32;not null" json:"date"`
	Items          []CartItem `gorm:"serializer:json" json:"items"`
	Total          int64      `gorm:"not null" json:"total"`
	OriginalTotal  int64      `gorm:"not null" json:"originalTotal"`
	DiscountAmount int64      `gorm:"not null" json:"discountAmount"`
}
