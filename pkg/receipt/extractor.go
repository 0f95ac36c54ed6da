package receipt

import (
	"StockScan-Backend/domain"
	"StockScan-Backend/entities"
	"StockScan-Backend/pkg/ocr"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// extractReceiptLines turns a raw OCR document into an ordered, deduplicated
// sequence of pending receipt lines. A document with no line items, or any
// line without a title, fails the whole extraction: a half-extracted scan is
// worse than a retry.
func (s *receiptService) extractReceiptLines(ctx context.Context, document *ocr.Document) (entities.ReceiptLines, error) {
	if len(document.LineItems) == 0 {
		return nil, domain.ErrNoLineItems
	}

	var lines entities.ReceiptLines
	byFingerprint := make(map[string]int)

	for _, raw := range document.LineItems {
		title := strings.TrimSpace(raw.Description)
		if title == "" {
			return nil, domain.ErrLineMissingTitle
		}

		quantity := 1.0
		if raw.Quantity != nil && *raw.Quantity > 0 {
			quantity = *raw.Quantity
		}

		fingerprint := Fingerprint(title, raw.SKU, raw.UPC, raw.HSN, raw.Reference)

		// Same fingerprint seen earlier in this document: merge quantities
		// into the first occurrence instead of emitting a second line.
		if at, ok := byFingerprint[fingerprint]; ok {
			lines[at].Quantity += quantity
			lines[at].ActionableInfo.QuantityChange += quantity * lines[at].ActionableInfo.QuantityMultiplier
			continue
		}

		info, err := s.resolveActionableInfo(ctx, fingerprint, quantity)
		if err != nil {
			return nil, err
		}

		lines = append(lines, entities.ReceiptLine{
			Fingerprint:    fingerprint,
			Title:          title,
			SKU:            raw.SKU,
			UPC:            raw.UPC,
			HSN:            raw.HSN,
			Reference:      raw.Reference,
			Quantity:       quantity,
			Status:         entities.LineStatusPending,
			ActionableInfo: info,
		})
		byFingerprint[fingerprint] = len(lines) - 1
	}

	return lines, nil
}

// resolveActionableInfo proposes an automatic disposition for a line by
// consulting the learned-line store. A lookup miss is a normal outcome: the
// line comes back unresolved with multiplier 1.
func (s *receiptService) resolveActionableInfo(ctx context.Context, fingerprint string, quantity float64) (entities.ActionableLineInfo, error) {
	learned, err := s.receiptRepository.GetLearnedLine(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ActionableLineInfo{
				QuantityMultiplier: 1,
				QuantityChange:     quantity,
			}, nil
		}
		return entities.ActionableLineInfo{}, err
	}

	multiplier := learned.QuantityMultiplier
	if multiplier <= 0 {
		multiplier = 1
	}

	ignore := learned.Ignore
	info := entities.ActionableLineInfo{
		Ignore:             &ignore,
		QuantityMultiplier: multiplier,
		QuantityChange:     quantity * multiplier,
	}

	if learned.ItemID != nil {
		itemID := learned.ItemID.String()
		info.ExistingItemID = &itemID
		if learned.Item != nil {
			title := learned.Item.Title
			info.ExistingItemTitle = &title
		}
	}

	return info, nil
}
