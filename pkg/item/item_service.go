package item

import (
	"StockScan-Backend/domain"
	"StockScan-Backend/entities"
	"StockScan-Backend/internal/ws"
	"StockScan-Backend/pkg/user"
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const EventItemsChanged = "items_changed"

type (
	ItemService interface {
		AddItem(ctx context.Context, req domain.AddItemRequest, userID string) (domain.ItemResponse, error)
		UpdateItem(ctx context.Context, id string, req domain.UpdateItemRequest, userID string) error
		DeleteItem(ctx context.Context, id string, userID string) error
		DeleteAllItems(ctx context.Context, userID string) error
		GetItems(ctx context.Context, userID string) ([]domain.ItemResponse, error)
		GetItemByID(ctx context.Context, id string, userID string) (domain.ItemResponse, error)
		UpdateItemQuantity(ctx context.Context, id string, req domain.UpdateItemQuantityRequest, userID string) (domain.ItemResponse, error)

		// Engine-facing operations, not owner-scoped: the reconciliation
		// engine addresses items by the id a learned line carries.
		ApplyQuantityDelta(ctx context.Context, itemID string, delta float64) (*entities.Item, error)
		CreateItemFromLine(ctx context.Context, userID string, title string, quantity float64, warningAmount *float64) (*entities.Item, error)

		GenerateShoppingList(ctx context.Context, userID string) (domain.ShoppingListResponse, error)
		GetShoppingLists(ctx context.Context, userID string) ([]domain.ShoppingListResponse, error)
		GetShoppingList(ctx context.Context, id string, userID string) (domain.ShoppingListResponse, error)
		DeleteShoppingList(ctx context.Context, id string, userID string) error
		DeleteAllShoppingLists(ctx context.Context, userID string) error
	}

	// LowStockMailer warns a user by mail when a quantity change takes an
	// item below its warning amount.
	LowStockMailer interface {
		SendLowStockWarning(toEmail string, itemTitle string, quantity float64, warningAmount float64) error
	}

	itemService struct {
		itemRepository ItemRepository
		userRepository user.UserRepository
		mailer         LowStockMailer
		notifier       ws.Publisher
	}
)

func NewItemService(itemRepository ItemRepository, userRepository user.UserRepository, mailer LowStockMailer, notifier ws.Publisher) ItemService {
	return &itemService{
		itemRepository: itemRepository,
		userRepository: userRepository,
		mailer:         mailer,
		notifier:       notifier,
	}
}

func toItemResponse(item *entities.Item) domain.ItemResponse {
	return domain.ItemResponse{
		ID:            item.ID.String(),
		Title:         item.Title,
		Quantity:      item.Quantity,
		WarningAmount: item.WarningAmount,
		CreatedAt:     item.CreatedAt,
	}
}

func (s *itemService) AddItem(ctx context.Context, req domain.AddItemRequest, userID string) (domain.ItemResponse, error) {
	created, err := s.CreateItemFromLine(ctx, userID, req.Title, req.Quantity, req.WarningAmount)
	if err != nil {
		return domain.ItemResponse{}, err
	}
	return toItemResponse(created), nil
}

func (s *itemService) CreateItemFromLine(ctx context.Context, userID string, title string, quantity float64, warningAmount *float64) (*entities.Item, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	item := &entities.Item{
		ID:            uuid.New(),
		UserID:        userUUID,
		Title:         title,
		Quantity:      quantity,
		WarningAmount: warningAmount,
	}

	if err := s.itemRepository.AddItem(ctx, item); err != nil {
		return nil, err
	}

	s.notifier.Publish(userID, EventItemsChanged, item)
	return item, nil
}

// getOwnedItem loads an item and enforces ownership; a foreign item is
// reported as not found.
func (s *itemService) getOwnedItem(ctx context.Context, id string, userID string) (*entities.Item, error) {
	item, err := s.itemRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	if item.UserID.String() != userID {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (s *itemService) UpdateItem(ctx context.Context, id string, req domain.UpdateItemRequest, userID string) error {
	item, err := s.getOwnedItem(ctx, id, userID)
	if err != nil {
		return err
	}

	if req.Title != "" {
		item.Title = req.Title
	}
	if req.WarningAmount != nil {
		item.WarningAmount = req.WarningAmount
	}

	if err := s.itemRepository.UpdateItem(ctx, item); err != nil {
		return err
	}

	s.notifier.Publish(userID, EventItemsChanged, item)
	return nil
}

func (s *itemService) DeleteItem(ctx context.Context, id string, userID string) error {
	item, err := s.getOwnedItem(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.itemRepository.DeleteLearnedLinesByItemID(ctx, item.ID.String()); err != nil {
		return err
	}
	if err := s.itemRepository.DeleteItem(ctx, item.ID.String()); err != nil {
		return err
	}

	s.notifier.Publish(userID, EventItemsChanged, nil)
	return nil
}

func (s *itemService) DeleteAllItems(ctx context.Context, userID string) error {
	items, err := s.itemRepository.GetItems(ctx, userID)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := s.itemRepository.DeleteLearnedLinesByItemID(ctx, item.ID.String()); err != nil {
			return err
		}
		if err := s.itemRepository.DeleteItem(ctx, item.ID.String()); err != nil {
			return err
		}
	}

	s.notifier.Publish(userID, EventItemsChanged, nil)
	return nil
}

func (s *itemService) GetItems(ctx context.Context, userID string) ([]domain.ItemResponse, error) {
	items, err := s.itemRepository.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.ItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toItemResponse(item))
	}
	return response, nil
}

func (s *itemService) GetItemByID(ctx context.Context, id string, userID string) (domain.ItemResponse, error) {
	item, err := s.getOwnedItem(ctx, id, userID)
	if err != nil {
		return domain.ItemResponse{}, err
	}
	return toItemResponse(item), nil
}

func (s *itemService) UpdateItemQuantity(ctx context.Context, id string, req domain.UpdateItemQuantityRequest, userID string) (domain.ItemResponse, error) {
	if _, err := s.getOwnedItem(ctx, id, userID); err != nil {
		return domain.ItemResponse{}, err
	}

	updated, err := s.ApplyQuantityDelta(ctx, id, req.QuantityChange)
	if err != nil {
		return domain.ItemResponse{}, err
	}
	return toItemResponse(updated), nil
}

// ApplyQuantityDelta adds a (possibly negative) delta to an item's quantity.
// A zero delta is rejected; a negative result is not clamped.
func (s *itemService) ApplyQuantityDelta(ctx context.Context, itemID string, delta float64) (*entities.Item, error) {
	if delta == 0 {
		return nil, domain.ErrZeroQuantityChange
	}

	item, err := s.itemRepository.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	before := item.Quantity
	item.Quantity += delta

	if err := s.itemRepository.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	if item.WarningAmount != nil && before >= *item.WarningAmount && item.Quantity < *item.WarningAmount {
		s.warnLowStock(ctx, item)
	}

	s.notifier.Publish(item.UserID.String(), EventItemsChanged, item)
	return item, nil
}

func (s *itemService) warnLowStock(ctx context.Context, item *entities.Item) {
	owner, err := s.userRepository.GetUserByID(ctx, item.UserID.String())
	if err != nil {
		log.Printf("low stock warning skipped, owner lookup failed: %v", err)
		return
	}

	title := item.Title
	quantity := item.Quantity
	warning := *item.WarningAmount
	go func() {
		if err := s.mailer.SendLowStockWarning(owner.Email, title, quantity, warning); err != nil {
			log.Printf("failed to send low stock warning: %v", err)
		}
	}()
}

// GenerateShoppingList snapshots every item currently below its warning
// amount. Items without a warning amount never appear.
func (s *itemService) GenerateShoppingList(ctx context.Context, userID string) (domain.ShoppingListResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ShoppingListResponse{}, domain.ErrParseUUID
	}

	items, err := s.itemRepository.GetItems(ctx, userID)
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}

	listItems := entities.ShoppingListItems{}
	for _, item := range items {
		if item.WarningAmount == nil {
			continue
		}
		if item.Quantity < *item.WarningAmount {
			listItems = append(listItems, entities.ShoppingListItem{
				ItemID:          item.ID.String(),
				Title:           item.Title,
				CurrentQuantity: item.Quantity,
				WarningAmount:   *item.WarningAmount,
			})
		}
	}

	list := &entities.ShoppingList{
		ID:     uuid.New(),
		UserID: userUUID,
		Items:  listItems,
	}

	if err := s.itemRepository.CreateShoppingList(ctx, list); err != nil {
		return domain.ShoppingListResponse{}, err
	}

	return toShoppingListResponse(list), nil
}

func toShoppingListResponse(list *entities.ShoppingList) domain.ShoppingListResponse {
	items := make([]domain.ShoppingListItemResponse, 0, len(list.Items))
	for _, item := range list.Items {
		items = append(items, domain.ShoppingListItemResponse{
			ItemID:          item.ItemID,
			Title:           item.Title,
			CurrentQuantity: item.CurrentQuantity,
			WarningAmount:   item.WarningAmount,
		})
	}
	return domain.ShoppingListResponse{
		ID:        list.ID.String(),
		Items:     items,
		CreatedAt: list.CreatedAt,
	}
}

func (s *itemService) GetShoppingLists(ctx context.Context, userID string) ([]domain.ShoppingListResponse, error) {
	lists, err := s.itemRepository.GetShoppingLists(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.ShoppingListResponse, 0, len(lists))
	for _, list := range lists {
		response = append(response, toShoppingListResponse(list))
	}
	return response, nil
}

func (s *itemService) getOwnedShoppingList(ctx context.Context, id string, userID string) (*entities.ShoppingList, error) {
	list, err := s.itemRepository.GetShoppingListByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShoppingListNotFound
		}
		return nil, err
	}
	if list.UserID.String() != userID {
		return nil, domain.ErrShoppingListNotFound
	}
	return list, nil
}

func (s *itemService) GetShoppingList(ctx context.Context, id string, userID string) (domain.ShoppingListResponse, error) {
	list, err := s.getOwnedShoppingList(ctx, id, userID)
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}
	return toShoppingListResponse(list), nil
}

func (s *itemService) DeleteShoppingList(ctx context.Context, id string, userID string) error {
	list, err := s.getOwnedShoppingList(ctx, id, userID)
	if err != nil {
		return err
	}
	return s.itemRepository.DeleteShoppingList(ctx, list.ID.String())
}

func (s *itemService) DeleteAllShoppingLists(ctx context.Context, userID string) error {
	lists, err := s.itemRepository.GetShoppingLists(ctx, userID)
	if err != nil {
		return err
	}
	for _, list := range lists {
		if err := s.itemRepository.DeleteShoppingList(ctx, list.ID.String()); err != nil {
			return err
		}
	}
	return nil
}
