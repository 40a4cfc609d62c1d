package services

import (
	"gamestore/internal/models"
	"gamestore/internal/storage"
)

// CartService handles business logic for the shopping cart. Ownership of
// individual cart items is checked by the HTTP layer, not here.
type CartService struct {
	store storage.Storage
}

// NewCartService creates a new CartService.
func NewCartService(store storage.Storage) *CartService {
	return &CartService{store: store}
}

// GetCart returns the user's cart items joined with their games.
func (s *CartService) GetCart(userID uint) ([]models.CartItemWithGame, error) {
	return s.store.GetCartItems(userID)
}

// GetCartItem returns a single cart item by id.
func (s *CartService) GetCartItem(id uint) (*models.CartItem, error) {
	return s.store.GetCartItem(id)
}

// AddToCart adds a game to the user's cart, incrementing the quantity when
// the game is already there. The game id is not validated against the
// catalog.
func (s *CartService) AddToCart(userID, gameID uint, quantity int) (*models.CartItem, error) {
	return s.store.AddCartItem(userID, gameID, quantity)
}

// UpdateQuantity overwrites the quantity of a cart item.
func (s *CartService) UpdateQuantity(id uint, quantity int) (*models.CartItem, error) {
	return s.store.UpdateCartItemQuantity(id, quantity)
}

// RemoveItem deletes a cart item; it reports whether a row was removed.
func (s *CartService) RemoveItem(id uint) (bool, error) {
	return s.store.RemoveCartItem(id)
}

// ClearCart deletes every cart item owned by the user.
func (s *CartService) ClearCart(userID uint) error {
	return s.store.ClearCart(userID)
}
