package entities

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

type ShoppingListItem struct {
	ItemID          string  `json:"item_id"`
	Title           string  `json:"title"`
	CurrentQuantity float64 `json:"current_quantity"`
	WarningAmount   float64 `json:"warning_amount"`
}

type ShoppingListItems []ShoppingListItem

func (i ShoppingListItems) Value() (driver.Value, error) {
	return json.Marshal(i)
}

func (i *ShoppingListItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, i)
	case string:
		return json.Unmarshal([]byte(v), i)
	default:
		return errors.New("unsupported type for shopping list items column")
	}
}

type ShoppingList struct {
	ID     uuid.UUID         `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID uuid.UUID         `gorm:"index" json:"user_id"`
	Items  ShoppingListItems `gorm:"type:jsonb" json:"items"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
