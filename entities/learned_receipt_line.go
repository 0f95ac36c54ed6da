package entities

import (
	"github.com/google/uuid"
)

// LearnedReceiptLine is the long-lived memory keyed by fingerprint. It is
// shared across all scans and all users: the fingerprint identifies a product
// line shape, not an owner. At most one of ItemID / Ignore is active.
type LearnedReceiptLine struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Fingerprint        string     `gorm:"uniqueIndex;not null" json:"fingerprint"`
	Title              string     `json:"title"`
	SKU                string     `json:"sku,omitempty"`
	UPC                string     `json:"upc,omitempty"`
	HSN                string     `json:"hsn,omitempty"`
	Reference          string     `json:"reference,omitempty"`
	ItemID             *uuid.UUID `json:"item_id,omitempty"`
	Ignore             bool       `json:"ignore"`
	QuantityMultiplier float64    `gorm:"default:1" json:"quantity_multiplier"`

	Item *Item `gorm:"foreignKey:ItemID"`
	Timestamp
}
