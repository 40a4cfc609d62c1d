package storage

import (
	"errors"

	"gamestore/internal/models"
)

// Sentinel errors returned by Storage implementations. Callers check them
// with errors.Is and map them to HTTP responses.
var (
	// ErrNotFound is returned when an id does not resolve to a record.
	ErrNotFound = errors.New("record not found")
	// ErrEmptyOrder is returned by CreateOrder when no line items are given.
	ErrEmptyOrder = errors.New("order must contain at least one item")
)

// Storage is the persistence contract for the store. It is implemented by
// MemStorage (map-backed) and GormStorage (relational); the backend is chosen
// once at startup and injected into the services.
type Storage interface {
	// User operations
	GetUser(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	CreateUser(user *models.User) error

	// Game operations
	GetGames() ([]models.Game, error)
	GetGame(id uint) (*models.Game, error)
	GetGamesByCategory(categoryID uint) ([]models.Game, error)
	GetFeaturedGames() ([]models.Game, error)
	GetNewReleases() ([]models.Game, error)
	GetTopRatedGames() ([]models.Game, error)
	SearchGames(query string) ([]models.Game, error)
	CreateGame(game *models.Game) error

	// Category operations
	GetCategories() ([]models.Category, error)
	GetCategory(id uint) (*models.Category, error)
	CreateCategory(category *models.Category) error

	// Platform operations
	GetPlatforms() ([]models.Platform, error)
	GetPlatform(id uint) (*models.Platform, error)
	CreatePlatform(platform *models.Platform) error

	// Cart operations. AddCartItem increments the quantity of an existing
	// (user, game) row instead of creating a duplicate. The game id is not
	// checked against the catalog here.
	GetCartItems(userID uint) ([]models.CartItemWithGame, error)
	GetCartItem(id uint) (*models.CartItem, error)
	AddCartItem(userID, gameID uint, quantity int) (*models.CartItem, error)
	UpdateCartItemQuantity(id uint, quantity int) (*models.CartItem, error)
	RemoveCartItem(id uint) (bool, error)
	ClearCart(userID uint) error

	// Order operations. CreateOrder atomically inserts the order header and
	// all line items, assigning ids and the creation timestamp on the way; on
	// any failure nothing persists. It never touches the cart.
	CreateOrder(order *models.Order, items []models.OrderItem) error
	GetOrders(userID uint) ([]models.Order, error)
	GetOrder(id uint) (*models.OrderWithItems, error)
}
