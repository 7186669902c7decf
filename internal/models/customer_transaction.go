package models

import "time"

type TradeType string

const (
	TradeBuy  TradeType = "buy"  // shop buys old jewellery from a customer
	TradeSell TradeType = "sell" // shop sells a stock item to a customer
)

// CustomerTransaction: a buy/sell deal with a walk-in customer. Selling
// links a stock item and deactivates it; deleting the sale reactivates it.
type CustomerTransaction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	VendorID      uint      `gorm:"index;not null" json:"vendorId"`
	CustomerName  string    `gorm:"size:100;not null" json:"customerName"`
	CustomerPhone string    `gorm:"size:20" json:"customerPhone,omitempty"`
	TradeType     TradeType `gorm:"size:5;not null" json:"tradeType"`
	ItemID        *uint     `gorm:"index" json:"itemId,omitempty"` // sell only
	MetalType     MetalType `gorm:"size:10;not null" json:"metalType"`
	Grams         float64   `json:"grams"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Description   string    `gorm:"size:255" json:"description,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
