package models

import "time"

// MetalRate: the vendor's daily rate board, one row per metal.
type MetalRate struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	VendorID    uint      `gorm:"index;not null;uniqueIndex:idx_vendor_metal" json:"vendorId"`
	MetalType   MetalType `gorm:"size:10;not null;uniqueIndex:idx_vendor_metal" json:"metalType"`
	RatePerGram float64   `gorm:"not null" json:"ratePerGram"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
