package models

import "time"

type ItemSource string

const (
	SourceManual  ItemSource = "manual"
	SourceKaragir ItemSource = "karagir"
)

// InventoryItem: a stock record. Karagir-sourced items are created and
// mirrored by the ledger engine; manual items come straight from the
// item form. IsActive is the soft-delete flag the sale workflow reads.
type InventoryItem struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	VendorID      uint       `gorm:"index;not null" json:"vendorId"`
	JewelleryName string     `gorm:"size:100;not null" json:"jewelleryName"`
	MetalType     MetalType  `gorm:"size:10;not null" json:"metalType"`
	Subtype       string     `gorm:"size:60" json:"subtype"`
	GrossWeight   float64    `json:"grossWeight"`
	NetWeight     float64    `json:"netWeight"`
	Purity        string     `gorm:"size:20" json:"purity"`
	LabourCharge  float64    `json:"labourCharge"`
	Balance       string     `gorm:"size:50;default:0" json:"balance"`
	HUIDNo        string     `gorm:"column:huid_no;size:6" json:"huidNo,omitempty"` // gold only, globally unique
	KaratCarat    string     `gorm:"size:20" json:"karatCarat,omitempty"`
	SourceType    ItemSource `gorm:"size:10;not null;default:manual" json:"sourceType"`
	IsActive      bool       `gorm:"not null;default:true" json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
