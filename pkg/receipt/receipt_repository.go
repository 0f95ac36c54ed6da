package receipt

import (
	"StockScan-Backend/entities"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	ReceiptRepository interface {
		CreateReceiptScan(ctx context.Context, scan *entities.ReceiptScan) error
		GetReceiptScanByID(ctx context.Context, id string) (*entities.ReceiptScan, error)
		UpdateReceiptScan(ctx context.Context, scan *entities.ReceiptScan) error
		GetCurrentPendingScan(ctx context.Context, userID string) (*entities.ReceiptScan, error)
		CountScansBetween(ctx context.Context, userID string, start, end time.Time) (int64, error)

		// Learned-line store, keyed by fingerprint.
		GetLearnedLine(ctx context.Context, fingerprint string) (*entities.LearnedReceiptLine, error)
		UpsertLearnedLine(ctx context.Context, learned *entities.LearnedReceiptLine) error
	}

	receiptRepository struct {
		db *gorm.DB
	}
)

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) CreateReceiptScan(ctx context.Context, scan *entities.ReceiptScan) error {
	return r.db.WithContext(ctx).Create(scan).Error
}

func (r *receiptRepository) GetReceiptScanByID(ctx context.Context, id string) (*entities.ReceiptScan, error) {
	var scan entities.ReceiptScan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&scan).Error; err != nil {
		return nil, err
	}
	return &scan, nil
}

func (r *receiptRepository) UpdateReceiptScan(ctx context.Context, scan *entities.ReceiptScan) error {
	return r.db.WithContext(ctx).Save(scan).Error
}

func (r *receiptRepository) GetCurrentPendingScan(ctx context.Context, userID string) (*entities.ReceiptScan, error) {
	var scan entities.ReceiptScan
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, entities.ScanStatusPending).
		Order("created_at desc").
		First(&scan).Error; err != nil {
		return nil, err
	}
	return &scan, nil
}

func (r *receiptRepository) CountScansBetween(ctx context.Context, userID string, start, end time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.ReceiptScan{}).
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *receiptRepository) GetLearnedLine(ctx context.Context, fingerprint string) (*entities.LearnedReceiptLine, error) {
	var learned entities.LearnedReceiptLine
	if err := r.db.WithContext(ctx).
		Preload("Item").
		Where("fingerprint = ?", fingerprint).
		First(&learned).Error; err != nil {
		return nil, err
	}
	return &learned, nil
}

// UpsertLearnedLine creates or rebinds the entry for a fingerprint in a
// single conditional write, so two first-time dispositions racing on the same
// fingerprint cannot create duplicates.
func (r *receiptRepository) UpsertLearnedLine(ctx context.Context, learned *entities.LearnedReceiptLine) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "fingerprint"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"item_id", "ignore", "quantity_multiplier", "updated_at",
		}),
	}).Create(learned).Error
}
