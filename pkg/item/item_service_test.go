package item

import (
	"StockScan-Backend/domain"
	"StockScan-Backend/entities"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeItemRepository struct {
	items        map[string]*entities.Item
	lists        map[string]*entities.ShoppingList
	learnedWipes []string
	deletedItems []string
	deletedLists []string
}

func newFakeItemRepository() *fakeItemRepository {
	return &fakeItemRepository{
		items: make(map[string]*entities.Item),
		lists: make(map[string]*entities.ShoppingList),
	}
}

func (f *fakeItemRepository) AddItem(_ context.Context, item *entities.Item) error {
	f.items[item.ID.String()] = item
	return nil
}

func (f *fakeItemRepository) GetItemByID(_ context.Context, id string) (*entities.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (f *fakeItemRepository) UpdateItem(_ context.Context, item *entities.Item) error {
	f.items[item.ID.String()] = item
	return nil
}

func (f *fakeItemRepository) DeleteItem(_ context.Context, id string) error {
	delete(f.items, id)
	f.deletedItems = append(f.deletedItems, id)
	return nil
}

func (f *fakeItemRepository) GetItems(_ context.Context, userID string) ([]*entities.Item, error) {
	var items []*entities.Item
	for _, item := range f.items {
		if item.UserID.String() == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeItemRepository) DeleteLearnedLinesByItemID(_ context.Context, itemID string) error {
	f.learnedWipes = append(f.learnedWipes, itemID)
	return nil
}

func (f *fakeItemRepository) CreateShoppingList(_ context.Context, list *entities.ShoppingList) error {
	f.lists[list.ID.String()] = list
	return nil
}

func (f *fakeItemRepository) GetShoppingLists(_ context.Context, userID string) ([]*entities.ShoppingList, error) {
	var lists []*entities.ShoppingList
	for _, list := range f.lists {
		if list.UserID.String() == userID {
			lists = append(lists, list)
		}
	}
	return lists, nil
}

func (f *fakeItemRepository) GetShoppingListByID(_ context.Context, id string) (*entities.ShoppingList, error) {
	list, ok := f.lists[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return list, nil
}

func (f *fakeItemRepository) DeleteShoppingList(_ context.Context, id string) error {
	delete(f.lists, id)
	f.deletedLists = append(f.deletedLists, id)
	return nil
}

type fakeUserRepository struct {
	users map[string]*entities.User
}

func (f *fakeUserRepository) CreateUser(_ context.Context, user *entities.User) error {
	f.users[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepository) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) UpdateUser(_ context.Context, user *entities.User) error {
	f.users[user.ID.String()] = user
	return nil
}

type mailCall struct {
	email         string
	title         string
	quantity      float64
	warningAmount float64
}

type fakeMailer struct {
	sent chan mailCall
}

func (f *fakeMailer) SendLowStockWarning(toEmail string, itemTitle string, quantity float64, warningAmount float64) error {
	f.sent <- mailCall{email: toEmail, title: itemTitle, quantity: quantity, warningAmount: warningAmount}
	return nil
}

type fakeNotifier struct {
	events []string
}

func (f *fakeNotifier) Publish(_ string, event string, _ any) {
	f.events = append(f.events, event)
}

type itemFixture struct {
	service  ItemService
	repo     *fakeItemRepository
	mailer   *fakeMailer
	notifier *fakeNotifier
	userID   uuid.UUID
}

func newItemFixture(t *testing.T) *itemFixture {
	t.Helper()

	repo := newFakeItemRepository()
	mailer := &fakeMailer{sent: make(chan mailCall, 1)}
	notifier := &fakeNotifier{}
	users := &fakeUserRepository{users: make(map[string]*entities.User)}

	userID := uuid.New()
	users.users[userID.String()] = &entities.User{ID: userID, Email: "owner@example.com"}

	return &itemFixture{
		service:  NewItemService(repo, users, mailer, notifier),
		repo:     repo,
		mailer:   mailer,
		notifier: notifier,
		userID:   userID,
	}
}

func (f *itemFixture) seedItem(quantity float64, warningAmount *float64) *entities.Item {
	item := &entities.Item{
		ID:            uuid.New(),
		UserID:        f.userID,
		Title:         "Milk",
		Quantity:      quantity,
		WarningAmount: warningAmount,
	}
	f.repo.items[item.ID.String()] = item
	return item
}

func warn(v float64) *float64 { return &v }

func TestApplyQuantityDeltaRejectsZero(t *testing.T) {
	f := newItemFixture(t)
	item := f.seedItem(5, nil)

	_, err := f.service.ApplyQuantityDelta(context.Background(), item.ID.String(), 0)
	assert.ErrorIs(t, err, domain.ErrZeroQuantityChange)
}

func TestApplyQuantityDeltaUnknownItem(t *testing.T) {
	f := newItemFixture(t)

	_, err := f.service.ApplyQuantityDelta(context.Background(), uuid.New().String(), 3)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestApplyQuantityDeltaAllowsNegativeResult(t *testing.T) {
	f := newItemFixture(t)
	item := f.seedItem(2, nil)

	updated, err := f.service.ApplyQuantityDelta(context.Background(), item.ID.String(), -5)
	require.NoError(t, err)
	assert.Equal(t, -3.0, updated.Quantity)
	assert.Contains(t, f.notifier.events, EventItemsChanged)
}

func TestApplyQuantityDeltaThresholdCrossingSendsMail(t *testing.T) {
	f := newItemFixture(t)
	item := f.seedItem(10, warn(5))

	_, err := f.service.ApplyQuantityDelta(context.Background(), item.ID.String(), -6)
	require.NoError(t, err)

	select {
	case call := <-f.mailer.sent:
		assert.Equal(t, "owner@example.com", call.email)
		assert.Equal(t, "Milk", call.title)
		assert.Equal(t, 4.0, call.quantity)
		assert.Equal(t, 5.0, call.warningAmount)
	case <-time.After(time.Second):
		t.Fatal("expected a low stock warning mail")
	}
}

func TestApplyQuantityDeltaNoMailWhenAlreadyBelow(t *testing.T) {
	f := newItemFixture(t)
	item := f.seedItem(3, warn(5))

	_, err := f.service.ApplyQuantityDelta(context.Background(), item.ID.String(), -1)
	require.NoError(t, err)

	select {
	case <-f.mailer.sent:
		t.Fatal("crossing already happened, no second warning expected")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUpdateItemQuantityEnforcesOwnership(t *testing.T) {
	f := newItemFixture(t)
	item := f.seedItem(5, nil)

	_, err := f.service.UpdateItemQuantity(context.Background(), item.ID.String(), domain.UpdateItemQuantityRequest{QuantityChange: 1}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	res, err := f.service.UpdateItemQuantity(context.Background(), item.ID.String(), domain.UpdateItemQuantityRequest{QuantityChange: 1}, f.userID.String())
	require.NoError(t, err)
	assert.Equal(t, 6.0, res.Quantity)
}

func TestDeleteItemWipesLearnedBindings(t *testing.T) {
	f := newItemFixture(t)
	item := f.seedItem(5, nil)

	require.NoError(t, f.service.DeleteItem(context.Background(), item.ID.String(), f.userID.String()))
	assert.Equal(t, []string{item.ID.String()}, f.repo.learnedWipes)
	assert.Equal(t, []string{item.ID.String()}, f.repo.deletedItems)
}

func TestGenerateShoppingList(t *testing.T) {
	f := newItemFixture(t)
	low := f.seedItem(1, warn(5))
	f.seedItem(10, warn(5))
	f.seedItem(0, nil) // no warning amount, never listed

	res, err := f.service.GenerateShoppingList(context.Background(), f.userID.String())
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, low.ID.String(), res.Items[0].ItemID)
	assert.Equal(t, 1.0, res.Items[0].CurrentQuantity)
	assert.Equal(t, 5.0, res.Items[0].WarningAmount)
	assert.Len(t, f.repo.lists, 1)
}

func TestShoppingListOwnership(t *testing.T) {
	f := newItemFixture(t)
	f.seedItem(1, warn(5))

	res, err := f.service.GenerateShoppingList(context.Background(), f.userID.String())
	require.NoError(t, err)

	_, err = f.service.GetShoppingList(context.Background(), res.ID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrShoppingListNotFound)

	err = f.service.DeleteShoppingList(context.Background(), res.ID, f.userID.String())
	require.NoError(t, err)
	assert.Empty(t, f.repo.lists)
}
