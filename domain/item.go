package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessAddItem              = "item added successfully"
	MessageSuccessUpdateItem           = "item updated successfully"
	MessageSuccessDeleteItem           = "item deleted successfully"
	MessageSuccessGetItems             = "items retrieved successfully"
	MessageSuccessUpdateQuantity       = "item quantity updated successfully"
	MessageSuccessGenerateShoppingList = "shopping list generated successfully"
	MessageSuccessGetShoppingLists     = "shopping lists retrieved successfully"
	MessageSuccessDeleteShoppingList   = "shopping list deleted successfully"

	MessageFailedAddItem              = "failed to add item"
	MessageFailedUpdateItem           = "failed to update item"
	MessageFailedDeleteItem           = "failed to delete item"
	MessageFailedGetItems             = "failed to retrieve items"
	MessageFailedUpdateQuantity       = "failed to update item quantity"
	MessageFailedGenerateShoppingList = "failed to generate shopping list"
	MessageFailedGetShoppingLists     = "failed to retrieve shopping lists"
	MessageFailedDeleteShoppingList   = "failed to delete shopping list"

	ErrItemNotFound         = errors.New("item not found")
	ErrZeroQuantityChange   = errors.New("quantity change cannot be zero")
	ErrShoppingListNotFound = errors.New("shopping list not found")
)

type (
	AddItemRequest struct {
		Title         string   `json:"title" validate:"required"`
		Quantity      float64  `json:"quantity" validate:"min=0"`
		WarningAmount *float64 `json:"warning_amount" validate:"omitempty,min=0"`
	}

	UpdateItemRequest struct {
		Title         string   `json:"title" validate:"omitempty"`
		WarningAmount *float64 `json:"warning_amount" validate:"omitempty,min=0"`
	}

	UpdateItemQuantityRequest struct {
		QuantityChange float64 `json:"quantity_change" validate:"required"`
	}

	ItemResponse struct {
		ID            string    `json:"id"`
		Title         string    `json:"title"`
		Quantity      float64   `json:"quantity"`
		WarningAmount *float64  `json:"warning_amount,omitempty"`
		CreatedAt     time.Time `json:"created_at"`
	}

	ShoppingListItemResponse struct {
		ItemID          string  `json:"item_id"`
		Title           string  `json:"title"`
		CurrentQuantity float64 `json:"current_quantity"`
		WarningAmount   float64 `json:"warning_amount"`
	}

	ShoppingListResponse struct {
		ID        string                     `json:"id"`
		Items     []ShoppingListItemResponse `json:"items"`
		CreatedAt time.Time                  `json:"created_at"`
	}
)
