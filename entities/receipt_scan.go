package entities

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

const (
	ScanStatusPending   = "PENDING"
	ScanStatusCancelled = "CANCELLED"
	ScanStatusCompleted = "COMPLETED"

	LineStatusPending   = "PENDING"
	LineStatusCompleted = "COMPLETED"
)

// ActionableLineInfo is the proposed disposition attached to a receipt line at
// extraction time. Ignore is a tri-state: nil means no prior decision exists.
type ActionableLineInfo struct {
	ExistingItemID     *string `json:"existing_item_id"`
	ExistingItemTitle  *string `json:"existing_item_title"`
	Ignore             *bool   `json:"ignore"`
	QuantityChange     float64 `json:"quantity_change"`
	QuantityMultiplier float64 `json:"quantity_multiplier"`
}

// ReceiptLine is embedded in a scan's lines column, never a table of its own.
// Fingerprint is assigned at extraction time and is the line's identity within
// the scan.
type ReceiptLine struct {
	Fingerprint    string             `json:"fingerprint"`
	Title          string             `json:"title"`
	SKU            string             `json:"sku,omitempty"`
	UPC            string             `json:"upc,omitempty"`
	HSN            string             `json:"hsn,omitempty"`
	Reference      string             `json:"reference,omitempty"`
	Quantity       float64            `json:"quantity"`
	Status         string             `json:"status"`
	ActionableInfo ActionableLineInfo `json:"actionable_info"`
}

type ReceiptLines []ReceiptLine

func (l ReceiptLines) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *ReceiptLines) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for receipt lines column")
	}
}

type ReceiptScan struct {
	ID          uuid.UUID    `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID    `gorm:"index" json:"user_id"`
	ImageURL    string       `json:"image_url"`
	RawDocument string       `gorm:"type:text" json:"-"`
	Status      string       `json:"status"` // "PENDING", "CANCELLED", "COMPLETED"
	Lines       ReceiptLines `gorm:"type:jsonb" json:"lines"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}

// PendingLines returns the lines still awaiting confirmation, in document order.
func (s *ReceiptScan) PendingLines() []ReceiptLine {
	var pending []ReceiptLine
	for _, line := range s.Lines {
		if line.Status == LineStatusPending {
			pending = append(pending, line)
		}
	}
	return pending
}
