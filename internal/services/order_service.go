package services

import (
	"fmt"
	"log"

	"gamestore/internal/models"
	"gamestore/internal/storage"
)

// ErrEmptyCart is returned by PlaceOrder when the user's cart has no items.
var ErrEmptyCart = fmt.Errorf("cannot place an order with an empty cart")

// OrderEventPublisher publishes order lifecycle events to the message broker.
// Implemented by *rabbitmq.Client; nil-able so the store can run without a
// broker.
type OrderEventPublisher interface {
	PublishOrderCreated(event map[string]interface{}) error
}

// OrderService handles order placement and retrieval.
type OrderService struct {
	store     storage.Storage
	publisher OrderEventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(store storage.Storage, publisher OrderEventPublisher) *OrderService {
	return &OrderService{store: store, publisher: publisher}
}

// PlaceOrder turns the user's current cart into an order:
//
//  1. Rejects the request when the cart is empty.
//  2. Derives one line item per cart item, priced at the game's discounted
//     price when present, else the list price. The caller-supplied total is
//     stored as given, never recomputed.
//  3. Creates the order header and line items atomically.
//  4. Clears the cart only after the order is durably created; a clear
//     failure leaves the order standing and the cart merely stale.
func (s *OrderService) PlaceOrder(userID uint, total float64, status string) (*models.Order, error) {
	cartItems, err := s.store.GetCartItems(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for user %d: %w", userID, err)
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(cartItems))
	for _, item := range cartItems {
		items = append(items, models.OrderItem{
			GameID:   item.GameID,
			Quantity: item.Quantity,
			Price:    item.Game.CurrentPrice(),
		})
	}

	order := &models.Order{
		UserID: userID,
		Total:  total,
		Status: status,
	}
	if err := s.store.CreateOrder(order, items); err != nil {
		return nil, err
	}

	s.publishOrderCreated(order)

	if err := s.store.ClearCart(userID); err != nil {
		log.Printf("Warning: order %d created but cart clear for user %d failed: %v", order.ID, userID, err)
	}

	return order, nil
}

// GetOrders returns the user's orders, newest last.
func (s *OrderService) GetOrders(userID uint) ([]models.Order, error) {
	return s.store.GetOrders(userID)
}

// GetOrder returns an order joined with its line items.
func (s *OrderService) GetOrder(id uint) (*models.OrderWithItems, error) {
	return s.store.GetOrder(id)
}

// publishOrderCreated emits an order.created event. Publishing is best
// effort: a broker failure must not fail an already-committed order.
func (s *OrderService) publishOrderCreated(order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"orderId": order.ID,
		"userId":  order.UserID,
		"total":   order.Total,
		"status":  order.Status,
	}
	if err := s.publisher.PublishOrderCreated(event); err != nil {
		log.Printf("Warning: failed to publish order created event for order %d: %v", order.ID, err)
	}
}
