package models

import "time"

type EntryType string

const (
	EntryOut EntryType = "out"
	EntryIn  EntryType = "in"
)

type EntryStatus string

const (
	StatusPending   EntryStatus = "pending"
	StatusCompleted EntryStatus = "completed"
)

// LedgerEntry: one material movement between the vendor and a karagir.
// "out" rows record raw metal handed over, "in" rows record finished
// jewellery coming back. Exactly one of the two field groups is filled,
// gated by EntryType.
type LedgerEntry struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	VendorID    uint        `gorm:"index;not null" json:"vendorId"`
	KaragirName string      `gorm:"size:100;index;not null" json:"karagirName"` // stored lowercase
	MetalType   MetalType   `gorm:"size:10;not null" json:"metalType"`
	EntryType   EntryType   `gorm:"size:5;not null" json:"entryType"`
	Status      EntryStatus `gorm:"size:10;not null;default:pending" json:"status"`

	// Correlation id, independent of the row id.
	TransactionID string `gorm:"size:36;uniqueIndex;not null" json:"transactionId"`

	// Out-only fields
	GramsGiven  *float64 `json:"gramsGiven,omitempty"`
	PurityGiven string   `gorm:"size:20" json:"purityGiven,omitempty"`

	// In-only fields
	JewelleryName  string   `gorm:"size:100" json:"jewelleryName,omitempty"`
	Subtype        string   `gorm:"size:60" json:"subtype,omitempty"`
	HUIDNo         string   `gorm:"column:huid_no;size:6" json:"huidNo,omitempty"`
	KaratCarat     string   `gorm:"size:20" json:"karatCarat,omitempty"`
	GrossWeight    *float64 `json:"grossWeight,omitempty"`
	NetWeight      *float64 `json:"netWeight,omitempty"`
	PurityReceived string   `gorm:"size:20" json:"purityReceived,omitempty"`
	LabourCharge   *float64 `json:"labourCharge,omitempty"`
	Balance        string   `gorm:"size:50;default:0" json:"balance,omitempty"`

	// Set by the reconciliation engine, never by the client.
	LinkedItemID        *uint `gorm:"index" json:"linkedItemId,omitempty"`
	CompletesOutEntryID *uint `gorm:"index" json:"completesOutEntry,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
