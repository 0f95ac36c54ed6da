package receipt

import (
	"StockScan-Backend/domain"
	"StockScan-Backend/entities"
	"StockScan-Backend/internal/utils/storage"
	"StockScan-Backend/internal/ws"
	"StockScan-Backend/pkg/ocr"
	"StockScan-Backend/pkg/user"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FreeMonthlyScanQuota    = 10
	PremiumMonthlyScanQuota = 100

	EventScanChanged = "scan_changed"
)

type (
	ReceiptService interface {
		UploadReceipt(ctx context.Context, req domain.UploadReceiptRequest, userID string) (domain.UploadReceiptResponse, error)
		GetCurrentScan(ctx context.Context, userID string) (domain.CurrentScanResponse, error)
		CancelScan(ctx context.Context, scanID string, userID string) error
		ConfirmScan(ctx context.Context, scanID string, userID string) (domain.ConfirmResponse, error)
		ConfirmLine(ctx context.Context, scanID string, userID string, req domain.ConfirmLineRequest) (domain.ConfirmResponse, error)
	}

	// Inventory is the slice of the item service the engine consumes: it
	// never reads inventory, it only applies deltas and creates items.
	Inventory interface {
		ApplyQuantityDelta(ctx context.Context, itemID string, delta float64) (*entities.Item, error)
		CreateItemFromLine(ctx context.Context, userID string, title string, quantity float64, warningAmount *float64) (*entities.Item, error)
	}

	// ReceiptStorage stores the uploaded receipt images.
	ReceiptStorage interface {
		UploadFile(fileName string, file *multipart.FileHeader, dir string, allowedTypes ...string) (string, error)
		DeleteFile(objectKey string) error
		GetPublicLinkKey(objectKey string) string
	}

	receiptService struct {
		receiptRepository ReceiptRepository
		userRepository    user.UserRepository
		inventory         Inventory
		ocrService        ocr.OCRService
		storage           ReceiptStorage
		notifier          ws.Publisher

		mu        sync.Mutex
		scanLocks map[string]*scanLock
	}

	// scanLock is reference-counted so entries can be dropped once nobody
	// holds or waits on them. Scans come and go, the map must not grow with
	// every scan ever touched.
	scanLock struct {
		mu   sync.Mutex
		refs int
	}
)

func NewReceiptService(
	receiptRepository ReceiptRepository,
	userRepository user.UserRepository,
	inventory Inventory,
	ocrService ocr.OCRService,
	receiptStorage ReceiptStorage,
	notifier ws.Publisher,
) ReceiptService {
	return &receiptService{
		receiptRepository: receiptRepository,
		userRepository:    userRepository,
		inventory:         inventory,
		ocrService:        ocrService,
		storage:           receiptStorage,
		notifier:          notifier,
		scanLocks:         make(map[string]*scanLock),
	}
}

// lockScan serialises confirm/cancel operations per scan id. Two concurrent
// confirmations racing on the recompute-status step would lose updates
// otherwise.
func (s *receiptService) lockScan(scanID string) func() {
	s.mu.Lock()
	lock, ok := s.scanLocks[scanID]
	if !ok {
		lock = &scanLock{}
		s.scanLocks[scanID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()

		s.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.scanLocks, scanID)
		}
		s.mu.Unlock()
	}
}

func (s *receiptService) UploadReceipt(ctx context.Context, req domain.UploadReceiptRequest, userID string) (domain.UploadReceiptResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.UploadReceiptResponse{}, domain.ErrParseUUID
	}

	if err := s.checkScanQuota(ctx, userID); err != nil {
		return domain.UploadReceiptResponse{}, err
	}

	scanID := uuid.New()
	fileName := fmt.Sprintf("receipt-%s", scanID.String())
	objectKey, err := s.storage.UploadFile(fileName, req.ReceiptImage, "receipts", storage.AllowImage...)
	if err != nil {
		return domain.UploadReceiptResponse{}, err
	}
	imageURL := s.storage.GetPublicLinkKey(objectKey)

	document, err := s.ocrService.ProcessReceipt(ctx, imageURL)
	if err != nil {
		_ = s.storage.DeleteFile(objectKey)
		return domain.UploadReceiptResponse{}, err
	}

	lines, err := s.extractReceiptLines(ctx, document)
	if err != nil {
		// Extraction failures abort the whole ingest, nothing is persisted.
		_ = s.storage.DeleteFile(objectKey)
		return domain.UploadReceiptResponse{}, err
	}

	rawDocument, err := json.Marshal(document)
	if err != nil {
		_ = s.storage.DeleteFile(objectKey)
		return domain.UploadReceiptResponse{}, err
	}

	scan := &entities.ReceiptScan{
		ID:          scanID,
		UserID:      userUUID,
		ImageURL:    imageURL,
		RawDocument: string(rawDocument),
		Status:      entities.ScanStatusPending,
		Lines:       lines,
	}

	if err := s.receiptRepository.CreateReceiptScan(ctx, scan); err != nil {
		_ = s.storage.DeleteFile(objectKey)
		return domain.UploadReceiptResponse{}, err
	}

	s.notifier.Publish(userID, EventScanChanged, scan)

	return domain.UploadReceiptResponse{
		ScanID:   scan.ID.String(),
		ImageURL: imageURL,
		Status:   scan.Status,
		Lines:    scan.Lines,
	}, nil
}

func (s *receiptService) checkScanQuota(ctx context.Context, userID string) error {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	endOfMonth := startOfMonth.AddDate(0, 1, 0)

	count, err := s.receiptRepository.CountScansBetween(ctx, userID, startOfMonth, endOfMonth)
	if err != nil {
		return err
	}

	quota := int64(FreeMonthlyScanQuota)
	currentUser, err := s.userRepository.GetUserByID(ctx, userID)
	if err == nil && currentUser.HasActivePremium(now) {
		quota = PremiumMonthlyScanQuota
	}

	if count >= quota {
		return domain.ErrScanQuotaExceeded
	}
	return nil
}

func (s *receiptService) GetCurrentScan(ctx context.Context, userID string) (domain.CurrentScanResponse, error) {
	scan, err := s.receiptRepository.GetCurrentPendingScan(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CurrentScanResponse{Status: "NO_PENDING_SCANS"}, nil
		}
		return domain.CurrentScanResponse{}, err
	}

	return domain.CurrentScanResponse{
		ScanID: scan.ID.String(),
		Status: scan.Status,
		Lines:  scan.PendingLines(),
	}, nil
}

// getOwnedScan loads a scan and enforces ownership. A scan belonging to
// another user is reported as not found, never as forbidden.
func (s *receiptService) getOwnedScan(ctx context.Context, scanID string, userID string) (*entities.ReceiptScan, error) {
	scan, err := s.receiptRepository.GetReceiptScanByID(ctx, scanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrScanNotFound
		}
		return nil, err
	}
	if scan.UserID.String() != userID {
		return nil, domain.ErrScanNotFound
	}
	return scan, nil
}

func (s *receiptService) CancelScan(ctx context.Context, scanID string, userID string) error {
	unlock := s.lockScan(scanID)
	defer unlock()

	scan, err := s.getOwnedScan(ctx, scanID, userID)
	if err != nil {
		return err
	}

	// CANCELLED is terminal and only reachable from PENDING.
	if scan.Status != entities.ScanStatusPending {
		return domain.ErrScanNotPending
	}

	scan.Status = entities.ScanStatusCancelled
	if err := s.receiptRepository.UpdateReceiptScan(ctx, scan); err != nil {
		return err
	}

	s.notifier.Publish(userID, EventScanChanged, scan)
	return nil
}

func (s *receiptService) ConfirmLine(ctx context.Context, scanID string, userID string, req domain.ConfirmLineRequest) (domain.ConfirmResponse, error) {
	unlock := s.lockScan(scanID)
	defer unlock()

	scan, err := s.getOwnedScan(ctx, scanID, userID)
	if err != nil {
		return domain.ConfirmResponse{}, err
	}

	if scan.Status != entities.ScanStatusPending {
		return domain.ConfirmResponse{}, domain.ErrScanNotPending
	}

	if len(scan.PendingLines()) == 0 {
		return domain.ConfirmResponse{}, domain.ErrNoPendingLines
	}

	target := -1
	for i := range scan.Lines {
		if scan.Lines[i].Status == entities.LineStatusPending && scan.Lines[i].Fingerprint == req.Fingerprint {
			target = i
			break
		}
	}
	if target < 0 {
		return domain.ConfirmResponse{}, domain.ErrLineNotFound
	}

	if err := s.disposeLine(ctx, &scan.Lines[target], req.Action, userID); err != nil {
		return domain.ConfirmResponse{}, err
	}

	scan.Lines[target].Status = entities.LineStatusCompleted
	recomputeScanStatus(scan)

	if err := s.receiptRepository.UpdateReceiptScan(ctx, scan); err != nil {
		return domain.ConfirmResponse{}, err
	}

	s.notifier.Publish(userID, EventScanChanged, scan)

	return domain.ConfirmResponse{
		ScanStatus:       scan.Status,
		UnconfirmedLines: pendingOrEmpty(scan),
	}, nil
}

// ConfirmScan runs the no-explicit-action confirmation over every pending
// line. One unresolved line never blocks the others: failures are collected
// and handed back as data.
func (s *receiptService) ConfirmScan(ctx context.Context, scanID string, userID string) (domain.ConfirmResponse, error) {
	unlock := s.lockScan(scanID)
	defer unlock()

	scan, err := s.getOwnedScan(ctx, scanID, userID)
	if err != nil {
		return domain.ConfirmResponse{}, err
	}

	if scan.Status != entities.ScanStatusPending {
		return domain.ConfirmResponse{}, domain.ErrScanNotPending
	}

	unconfirmed := []entities.ReceiptLine{}
	for i := range scan.Lines {
		if scan.Lines[i].Status != entities.LineStatusPending {
			continue
		}
		if err := s.disposeLine(ctx, &scan.Lines[i], nil, userID); err != nil {
			unconfirmed = append(unconfirmed, scan.Lines[i])
			continue
		}
		scan.Lines[i].Status = entities.LineStatusCompleted
	}

	recomputeScanStatus(scan)
	if err := s.receiptRepository.UpdateReceiptScan(ctx, scan); err != nil {
		return domain.ConfirmResponse{}, err
	}

	s.notifier.Publish(userID, EventScanChanged, scan)

	return domain.ConfirmResponse{
		ScanStatus:       scan.Status,
		UnconfirmedLines: unconfirmed,
	}, nil
}

// disposeLine resolves one pending line. Precedence: explicit item binding,
// explicit new item, explicit ignore, learned ignore, learned binding. A line
// matching none of these stays pending and the caller is told so.
func (s *receiptService) disposeLine(ctx context.Context, line *entities.ReceiptLine, action *domain.LineAction, userID string) error {
	switch {
	case action != nil && action.ItemID != "":
		multiplier, err := s.resolveMultiplier(ctx, line.Fingerprint, action.QuantityMultiplier)
		if err != nil {
			return err
		}
		if _, err := s.inventory.ApplyQuantityDelta(ctx, action.ItemID, line.Quantity*multiplier); err != nil {
			return err
		}
		return s.upsertBinding(ctx, line, action.ItemID, multiplier)

	case action != nil && action.NewItem != nil:
		multiplier, err := s.resolveMultiplier(ctx, line.Fingerprint, action.QuantityMultiplier)
		if err != nil {
			return err
		}
		created, err := s.inventory.CreateItemFromLine(ctx, userID, action.NewItem.Title, line.Quantity*multiplier, action.NewItem.WarningAmount)
		if err != nil {
			return err
		}
		return s.upsertBinding(ctx, line, created.ID.String(), multiplier)

	case action != nil && action.Ignore:
		log.Printf("receipt line marked as ignored: %s", line.Title)
		return s.upsertIgnore(ctx, line)

	case line.ActionableInfo.Ignore != nil && *line.ActionableInfo.Ignore:
		// Already resolved by prior learning, nothing to mutate.
		log.Printf("receipt line ignored: %s", line.Title)
		return nil

	case line.ActionableInfo.ExistingItemID != nil:
		_, err := s.inventory.ApplyQuantityDelta(ctx, *line.ActionableInfo.ExistingItemID, line.ActionableInfo.QuantityChange)
		return err

	default:
		return domain.ErrNoActionableInfo
	}
}

// resolveMultiplier picks the multiplier for an explicit disposition: the one
// the caller chose, else the previously learned one, else 1.
func (s *receiptService) resolveMultiplier(ctx context.Context, fingerprint string, chosen *float64) (float64, error) {
	if chosen != nil && *chosen > 0 {
		return *chosen, nil
	}
	learned, err := s.receiptRepository.GetLearnedLine(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 1, nil
		}
		return 0, err
	}
	if learned.QuantityMultiplier > 0 {
		return learned.QuantityMultiplier, nil
	}
	return 1, nil
}

func (s *receiptService) upsertBinding(ctx context.Context, line *entities.ReceiptLine, itemID string, multiplier float64) error {
	itemUUID, err := uuid.Parse(itemID)
	if err != nil {
		return domain.ErrParseUUID
	}
	return s.receiptRepository.UpsertLearnedLine(ctx, &entities.LearnedReceiptLine{
		ID:                 uuid.New(),
		Fingerprint:        line.Fingerprint,
		Title:              line.Title,
		SKU:                line.SKU,
		UPC:                line.UPC,
		HSN:                line.HSN,
		Reference:          line.Reference,
		ItemID:             &itemUUID,
		Ignore:             false,
		QuantityMultiplier: multiplier,
	})
}

func (s *receiptService) upsertIgnore(ctx context.Context, line *entities.ReceiptLine) error {
	return s.receiptRepository.UpsertLearnedLine(ctx, &entities.LearnedReceiptLine{
		ID:                 uuid.New(),
		Fingerprint:        line.Fingerprint,
		Title:              line.Title,
		SKU:                line.SKU,
		UPC:                line.UPC,
		HSN:                line.HSN,
		Reference:          line.Reference,
		ItemID:             nil,
		Ignore:             true,
		QuantityMultiplier: 1,
	})
}

// recomputeScanStatus enforces the invariant: COMPLETED iff no line is
// PENDING.
func recomputeScanStatus(scan *entities.ReceiptScan) {
	for _, line := range scan.Lines {
		if line.Status == entities.LineStatusPending {
			scan.Status = entities.ScanStatusPending
			return
		}
	}
	scan.Status = entities.ScanStatusCompleted
}

func pendingOrEmpty(scan *entities.ReceiptScan) []entities.ReceiptLine {
	pending := scan.PendingLines()
	if pending == nil {
		return []entities.ReceiptLine{}
	}
	return pending
}
