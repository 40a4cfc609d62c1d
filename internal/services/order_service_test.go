package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gamestore/internal/models"
	"gamestore/internal/services"
	"gamestore/internal/storage"
)

// MockPublisher is a mock implementation of services.OrderEventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderCreated(event map[string]interface{}) error {
	args := m.Called(event)
	return args.Error(0)
}

func seedGame(t *testing.T, s storage.Storage, title string, price float64, discounted *float64) *models.Game {
	t.Helper()
	game := &models.Game{
		Title:           title,
		Description:     "test game",
		Price:           price,
		DiscountedPrice: discounted,
		ImageURL:        "https://example.com/cover.jpg",
		CategoryID:      1,
		Platforms:       []uint{1},
	}
	require.NoError(t, s.CreateGame(game))
	return game
}

func TestOrderService_PlaceOrderFromCart(t *testing.T) {
	store := storage.NewMemStorage()
	publisher := new(MockPublisher)
	orderService := services.NewOrderService(store, publisher)

	discounted := 44.99
	game := seedGame(t, store, "Horizon Forbidden West", 59.99, &discounted)

	// Add the same game twice: one cart row with quantity 2.
	_, err := store.AddCartItem(1, game.ID, 1)
	require.NoError(t, err)
	_, err = store.AddCartItem(1, game.ID, 1)
	require.NoError(t, err)

	publisher.On("PublishOrderCreated", mock.MatchedBy(func(event map[string]interface{}) bool {
		return event["userId"] == uint(1) && event["total"] == 89.98
	})).Return(nil).Once()

	order, err := orderService.PlaceOrder(1, 89.98, "")
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, 89.98, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	// One line item, priced at the discounted price, quantity 2.
	placed, err := store.GetOrder(order.ID)
	require.NoError(t, err)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, game.ID, placed.Items[0].GameID)
	assert.Equal(t, 2, placed.Items[0].Quantity)
	assert.Equal(t, 44.99, placed.Items[0].Price)

	// The cart is cleared after placement.
	cart, err := store.GetCartItems(1)
	require.NoError(t, err)
	assert.Empty(t, cart)

	publisher.AssertExpectations(t)
}

func TestOrderService_PlaceOrderUsesListPriceWithoutDiscount(t *testing.T) {
	store := storage.NewMemStorage()
	orderService := services.NewOrderService(store, nil)

	game := seedGame(t, store, "Starfield", 59.99, nil)
	_, err := store.AddCartItem(1, game.ID, 1)
	require.NoError(t, err)

	order, err := orderService.PlaceOrder(1, 59.99, "")
	require.NoError(t, err)

	placed, err := store.GetOrder(order.ID)
	require.NoError(t, err)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, 59.99, placed.Items[0].Price)
}

func TestOrderService_PlaceOrderRejectsEmptyCart(t *testing.T) {
	store := storage.NewMemStorage()
	publisher := new(MockPublisher)
	orderService := services.NewOrderService(store, publisher)

	_, err := orderService.PlaceOrder(1, 0, "")
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	orders, err := store.GetOrders(1)
	require.NoError(t, err)
	assert.Empty(t, orders)
	publisher.AssertNotCalled(t, "PublishOrderCreated", mock.Anything)
}

func TestOrderService_PlaceOrderKeepsCallerSuppliedTotal(t *testing.T) {
	store := storage.NewMemStorage()
	orderService := services.NewOrderService(store, nil)

	game := seedGame(t, store, "Control", 39.99, nil)
	_, err := store.AddCartItem(1, game.ID, 1)
	require.NoError(t, err)

	// The total is trusted as given, even when it disagrees with the items.
	order, err := orderService.PlaceOrder(1, 12.34, models.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, 12.34, order.Total)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
}

func TestOrderService_PublishFailureDoesNotFailOrder(t *testing.T) {
	store := storage.NewMemStorage()
	publisher := new(MockPublisher)
	orderService := services.NewOrderService(store, publisher)

	game := seedGame(t, store, "Elden Ring", 59.99, nil)
	_, err := store.AddCartItem(1, game.ID, 1)
	require.NoError(t, err)

	publisher.On("PublishOrderCreated", mock.Anything).Return(fmt.Errorf("broker down")).Once()

	order, err := orderService.PlaceOrder(1, 59.99, "")
	require.NoError(t, err)
	assert.NotZero(t, order.ID)

	// The order committed and the cart still cleared.
	cart, err := store.GetCartItems(1)
	require.NoError(t, err)
	assert.Empty(t, cart)
	publisher.AssertExpectations(t)
}

func TestOrderService_GetOrders(t *testing.T) {
	store := storage.NewMemStorage()
	orderService := services.NewOrderService(store, nil)

	game := seedGame(t, store, "Game", 10, nil)
	for i := 0; i < 2; i++ {
		_, err := store.AddCartItem(1, game.ID, 1)
		require.NoError(t, err)
		_, err = orderService.PlaceOrder(1, 10, "")
		require.NoError(t, err)
	}

	orders, err := orderService.GetOrders(1)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	_, err = orderService.GetOrder(9999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
