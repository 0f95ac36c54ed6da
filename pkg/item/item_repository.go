package item

import (
	"StockScan-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	ItemRepository interface {
		AddItem(ctx context.Context, item *entities.Item) error
		GetItemByID(ctx context.Context, id string) (*entities.Item, error)
		UpdateItem(ctx context.Context, item *entities.Item) error
		DeleteItem(ctx context.Context, id string) error
		GetItems(ctx context.Context, userID string) ([]*entities.Item, error)
		DeleteLearnedLinesByItemID(ctx context.Context, itemID string) error

		CreateShoppingList(ctx context.Context, list *entities.ShoppingList) error
		GetShoppingLists(ctx context.Context, userID string) ([]*entities.ShoppingList, error)
		GetShoppingListByID(ctx context.Context, id string) (*entities.ShoppingList, error)
		DeleteShoppingList(ctx context.Context, id string) error
	}

	itemRepository struct {
		db *gorm.DB
	}
)

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) AddItem(ctx context.Context, item *entities.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) GetItemByID(ctx context.Context, id string) (*entities.Item, error) {
	var item entities.Item
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) UpdateItem(ctx context.Context, item *entities.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Item{}).Error
}

func (r *itemRepository) GetItems(ctx context.Context, userID string) ([]*entities.Item, error) {
	var items []*entities.Item
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("title asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteLearnedLinesByItemID removes every learned binding pointing at an
// item that is about to disappear, so old fingerprints do not auto-resolve to
// a dangling reference.
func (r *itemRepository) DeleteLearnedLinesByItemID(ctx context.Context, itemID string) error {
	return r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Delete(&entities.LearnedReceiptLine{}).Error
}

func (r *itemRepository) CreateShoppingList(ctx context.Context, list *entities.ShoppingList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

func (r *itemRepository) GetShoppingLists(ctx context.Context, userID string) ([]*entities.ShoppingList, error) {
	var lists []*entities.ShoppingList
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *itemRepository) GetShoppingListByID(ctx context.Context, id string) (*entities.ShoppingList, error) {
	var list entities.ShoppingList
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *itemRepository) DeleteShoppingList(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.ShoppingList{}).Error
}
