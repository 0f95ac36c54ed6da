package domain

import (
	"errors"
	"mime/multipart"

	"StockScan-Backend/entities"
)

var (
	MessageSuccessUploadReceipt  = "receipt uploaded successfully"
	MessageSuccessGetCurrentScan = "current scan retrieved successfully"
	MessageSuccessCancelScan     = "receipt scan cancelled successfully"
	MessageSuccessConfirmScan    = "receipt scan confirmed"
	MessageSuccessConfirmLine    = "receipt line confirmed"

	MessageFailedUploadReceipt  = "failed to upload receipt"
	MessageFailedGetCurrentScan = "failed to retrieve current scan"
	MessageFailedCancelScan     = "failed to cancel receipt scan"
	MessageFailedConfirmScan    = "failed to confirm receipt scan"
	MessageFailedConfirmLine    = "failed to confirm receipt line"

	ErrScanNotFound      = errors.New("receipt scan not found")
	ErrScanNotPending    = errors.New("receipt scan is not pending")
	ErrNoLineItems       = errors.New("no line items found in document")
	ErrLineMissingTitle  = errors.New("receipt line has no title")
	ErrNoPendingLines    = errors.New("no pending lines to confirm")
	ErrLineNotFound      = errors.New("line not found in pending lines")
	ErrNoActionableInfo  = errors.New("no actionable information provided for line confirmation")
	ErrScanQuotaExceeded = errors.New("monthly receipt scan quota exceeded")
)

type (
	UploadReceiptRequest struct {
		ReceiptImage *multipart.FileHeader `json:"receipt_image" form:"receipt_image" validate:"required"`
	}

	UploadReceiptResponse struct {
		ScanID   string                 `json:"scan_id"`
		ImageURL string                 `json:"image_url"`
		Status   string                 `json:"status"`
		Lines    []entities.ReceiptLine `json:"lines"`
	}

	CurrentScanResponse struct {
		ScanID string                 `json:"scan_id,omitempty"`
		Status string                 `json:"status"`
		Lines  []entities.ReceiptLine `json:"lines,omitempty"`
	}

	// NewItemAction creates a fresh inventory item and binds the line's
	// fingerprint to it.
	NewItemAction struct {
		Title         string   `json:"title" validate:"required"`
		WarningAmount *float64 `json:"warning_amount" validate:"omitempty,min=0"`
	}

	// LineAction is the explicit disposition supplied by the user for one
	// line. At most one of ItemID / NewItem / Ignore is honored.
	LineAction struct {
		ItemID             string         `json:"item_id" validate:"omitempty,uuid"`
		NewItem            *NewItemAction `json:"new_item" validate:"omitempty"`
		Ignore             bool           `json:"ignore"`
		QuantityMultiplier *float64       `json:"quantity_multiplier" validate:"omitempty,gt=0"`
	}

	ConfirmLineRequest struct {
		Fingerprint string      `json:"fingerprint" validate:"required"`
		Action      *LineAction `json:"action" validate:"omitempty"`
	}

	ConfirmResponse struct {
		ScanStatus       string                 `json:"scan_status"`
		UnconfirmedLines []entities.ReceiptLine `json:"unconfirmed_lines"`
	}
)
