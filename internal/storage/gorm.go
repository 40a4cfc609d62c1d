package storage

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"gamestore/internal/models"
)

// GormStorage is a GORM implementation of Storage. In production it runs on
// PostgreSQL; tests use the sqlite driver against an in-memory database.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage creates a new GormStorage on an open GORM handle.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// AutoMigrate creates or updates the schema for all store entities.
func (s *GormStorage) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Platform{},
		&models.Game{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
}

// --- User operations ---

func (s *GormStorage) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get user %d", id)
	}
	return &user, nil
}

func (s *GormStorage) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "LOWER(username) = ?", strings.ToLower(username)).Error; err != nil {
		return nil, translate(err, "get user by username %q", username)
	}
	return &user, nil
}

func (s *GormStorage) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "LOWER(email) = ?", strings.ToLower(email)).Error; err != nil {
		return nil, translate(err, "get user by email %q", email)
	}
	return &user, nil
}

func (s *GormStorage) CreateUser(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// --- Game operations ---

func (s *GormStorage) GetGames() ([]models.Game, error) {
	var games []models.Game
	if err := s.db.Order("id").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}
	return games, nil
}

func (s *GormStorage) GetGame(id uint) (*models.Game, error) {
	var game models.Game
	if err := s.db.First(&game, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get game %d", id)
	}
	return &game, nil
}

func (s *GormStorage) GetGamesByCategory(categoryID uint) ([]models.Game, error) {
	var games []models.Game
	if err := s.db.Where("category_id = ?", categoryID).Order("id").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to get games for category %d: %w", categoryID, err)
	}
	return games, nil
}

func (s *GormStorage) GetFeaturedGames() ([]models.Game, error) {
	return s.gamesWhere("is_featured = ?", true)
}

func (s *GormStorage) GetNewReleases() ([]models.Game, error) {
	return s.gamesWhere("is_new_release = ?", true)
}

func (s *GormStorage) GetTopRatedGames() ([]models.Game, error) {
	return s.gamesWhere("is_top_rated = ?", true)
}

func (s *GormStorage) SearchGames(query string) ([]models.Game, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	return s.gamesWhere("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
}

func (s *GormStorage) CreateGame(game *models.Game) error {
	if err := s.db.Create(game).Error; err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func (s *GormStorage) gamesWhere(cond string, args ...interface{}) ([]models.Game, error) {
	var games []models.Game
	if err := s.db.Where(cond, args...).Order("id").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	return games, nil
}

// --- Category operations ---

func (s *GormStorage) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (s *GormStorage) GetCategory(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get category %d", id)
	}
	return &category, nil
}

func (s *GormStorage) CreateCategory(category *models.Category) error {
	if err := s.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// --- Platform operations ---

func (s *GormStorage) GetPlatforms() ([]models.Platform, error) {
	var platforms []models.Platform
	if err := s.db.Order("id").Find(&platforms).Error; err != nil {
		return nil, fmt.Errorf("failed to get platforms: %w", err)
	}
	return platforms, nil
}

func (s *GormStorage) GetPlatform(id uint) (*models.Platform, error) {
	var platform models.Platform
	if err := s.db.First(&platform, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get platform %d", id)
	}
	return &platform, nil
}

func (s *GormStorage) CreatePlatform(platform *models.Platform) error {
	if err := s.db.Create(platform).Error; err != nil {
		return fmt.Errorf("failed to create platform: %w", err)
	}
	return nil
}

// --- Cart operations ---

func (s *GormStorage) GetCartItems(userID uint) ([]models.CartItemWithGame, error) {
	var items []models.CartItem
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart items for user %d: %w", userID, err)
	}
	if len(items) == 0 {
		return []models.CartItemWithGame{}, nil
	}

	gameIDs := make([]uint, 0, len(items))
	for _, item := range items {
		gameIDs = append(gameIDs, item.GameID)
	}
	var games []models.Game
	if err := s.db.Where("id IN ?", gameIDs).Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to get games for cart of user %d: %w", userID, err)
	}
	byID := make(map[uint]models.Game, len(games))
	for _, game := range games {
		byID[game.ID] = game
	}

	result := make([]models.CartItemWithGame, 0, len(items))
	for _, item := range items {
		result = append(result, models.CartItemWithGame{
			CartItem: item,
			Game:     byID[item.GameID],
		})
	}
	return result, nil
}

func (s *GormStorage) GetCartItem(id uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get cart item %d", id)
	}
	return &item, nil
}

func (s *GormStorage) AddCartItem(userID, gameID uint, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.First(&item, "user_id = ? AND game_id = ?", userID, gameID).Error
	switch {
	case err == nil:
		item.Quantity += quantity
		if err := s.db.Model(&item).Update("quantity", item.Quantity).Error; err != nil {
			return nil, fmt.Errorf("failed to increment cart item %d: %w", item.ID, err)
		}
		return &item, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{UserID: userID, GameID: gameID, Quantity: quantity}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart item: %w", err)
		}
		return &item, nil
	default:
		return nil, fmt.Errorf("failed to look up cart item for user %d game %d: %w", userID, gameID, err)
	}
}

func (s *GormStorage) UpdateCartItemQuantity(id uint, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get cart item %d", id)
	}
	item.Quantity = quantity
	if err := s.db.Model(&item).Update("quantity", quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item %d: %w", id, err)
	}
	return &item, nil
}

func (s *GormStorage) RemoveCartItem(id uint) (bool, error) {
	res := s.db.Delete(&models.CartItem{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove cart item %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStorage) ClearCart(userID uint) error {
	if err := s.db.Delete(&models.CartItem{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to clear cart for user %d: %w", userID, err)
	}
	return nil
}

// --- Order operations ---

// CreateOrder inserts the order header and its line items inside a single
// transaction. GORM rolls the transaction back on every error path, so a
// failed insert leaves no partial order behind.
func (s *GormStorage) CreateOrder(order *models.Order, items []models.OrderItem) error {
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (s *GormStorage) GetOrders(userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for user %d: %w", userID, err)
	}
	return orders, nil
}

func (s *GormStorage) GetOrder(id uint) (*models.OrderWithItems, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get order %d", id)
	}

	var items []models.OrderItem
	if err := s.db.Where("order_id = ?", id).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get items for order %d: %w", id, err)
	}

	result := &models.OrderWithItems{Order: order, Items: make([]models.OrderItemWithGame, 0, len(items))}
	if len(items) == 0 {
		return result, nil
	}

	gameIDs := make([]uint, 0, len(items))
	for _, item := range items {
		gameIDs = append(gameIDs, item.GameID)
	}
	var games []models.Game
	if err := s.db.Where("id IN ?", gameIDs).Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to get games for order %d: %w", id, err)
	}
	byID := make(map[uint]models.Game, len(games))
	for _, game := range games {
		byID[game.ID] = game
	}
	for _, item := range items {
		result.Items = append(result.Items, models.OrderItemWithGame{
			OrderItem: item,
			Game:      byID[item.GameID],
		})
	}
	return result, nil
}

// translate maps gorm.ErrRecordNotFound to the package sentinel and wraps
// everything else with context.
func translate(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to "+format+": %w", append(args, err)...)
}
