package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"gamestore/internal/models"
)

// MemStorage is an in-memory implementation of Storage. It is used when the
// store runs without a database (development, tests). A single mutex guards
// every operation, so the multi-row CreateOrder is atomic by construction.
type MemStorage struct {
	mu sync.RWMutex

	users      map[uint]models.User
	games      map[uint]models.Game
	categories map[uint]models.Category
	platforms  map[uint]models.Platform
	cartItems  map[uint]models.CartItem
	orders     map[uint]models.Order
	orderItems map[uint]models.OrderItem

	nextUserID      uint
	nextGameID      uint
	nextCategoryID  uint
	nextPlatformID  uint
	nextCartItemID  uint
	nextOrderID     uint
	nextOrderItemID uint
}

// NewMemStorage creates an empty MemStorage.
func NewMemStorage() *MemStorage {
	return &MemStorage{
		users:      make(map[uint]models.User),
		games:      make(map[uint]models.Game),
		categories: make(map[uint]models.Category),
		platforms:  make(map[uint]models.Platform),
		cartItems:  make(map[uint]models.CartItem),
		orders:     make(map[uint]models.Order),
		orderItems: make(map[uint]models.OrderItem),

		nextUserID:      1,
		nextGameID:      1,
		nextCategoryID:  1,
		nextPlatformID:  1,
		nextCartItemID:  1,
		nextOrderID:     1,
		nextOrderItemID: 1,
	}
}

// --- User operations ---

func (s *MemStorage) GetUser(id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemStorage) GetUserByUsername(username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Username, username) {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStorage) GetUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStorage) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.nextUserID
	s.nextUserID++
	user.CreatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

// --- Game operations ---

func (s *MemStorage) GetGames() ([]models.Game, error) {
	return s.filterGames(func(models.Game) bool { return true }), nil
}

func (s *MemStorage) GetGame(id uint) (*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	game, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &game, nil
}

func (s *MemStorage) GetGamesByCategory(categoryID uint) ([]models.Game, error) {
	return s.filterGames(func(g models.Game) bool { return g.CategoryID == categoryID }), nil
}

func (s *MemStorage) GetFeaturedGames() ([]models.Game, error) {
	return s.filterGames(func(g models.Game) bool { return g.IsFeatured }), nil
}

func (s *MemStorage) GetNewReleases() ([]models.Game, error) {
	return s.filterGames(func(g models.Game) bool { return g.IsNewRelease }), nil
}

func (s *MemStorage) GetTopRatedGames() ([]models.Game, error) {
	return s.filterGames(func(g models.Game) bool { return g.IsTopRated }), nil
}

func (s *MemStorage) SearchGames(query string) ([]models.Game, error) {
	q := strings.ToLower(query)
	return s.filterGames(func(g models.Game) bool {
		return strings.Contains(strings.ToLower(g.Title), q) ||
			strings.Contains(strings.ToLower(g.Description), q)
	}), nil
}

func (s *MemStorage) CreateGame(game *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	game.ID = s.nextGameID
	s.nextGameID++
	s.games[game.ID] = *game
	return nil
}

// filterGames returns all games matching the predicate, ordered by id so the
// listing is stable across calls.
func (s *MemStorage) filterGames(match func(models.Game) bool) []models.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]models.Game, 0)
	for _, game := range s.games {
		if match(game) {
			games = append(games, game)
		}
	}
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games
}

// --- Category operations ---

func (s *MemStorage) GetCategories() ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (s *MemStorage) GetCategory(id uint) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &category, nil
}

func (s *MemStorage) CreateCategory(category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category.ID = s.nextCategoryID
	s.nextCategoryID++
	s.categories[category.ID] = *category
	return nil
}

// --- Platform operations ---

func (s *MemStorage) GetPlatforms() ([]models.Platform, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	platforms := make([]models.Platform, 0, len(s.platforms))
	for _, p := range s.platforms {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i].ID < platforms[j].ID })
	return platforms, nil
}

func (s *MemStorage) GetPlatform(id uint) (*models.Platform, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	platform, ok := s.platforms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &platform, nil
}

func (s *MemStorage) CreatePlatform(platform *models.Platform) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	platform.ID = s.nextPlatformID
	s.nextPlatformID++
	s.platforms[platform.ID] = *platform
	return nil
}

// --- Cart operations ---

func (s *MemStorage) GetCartItems(userID uint) ([]models.CartItemWithGame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.CartItemWithGame, 0)
	for _, item := range s.cartItems {
		if item.UserID != userID {
			continue
		}
		// The game may have left the catalog; the item is still listed,
		// with a zero-value game.
		items = append(items, models.CartItemWithGame{
			CartItem: item,
			Game:     s.games[item.GameID],
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *MemStorage) GetCartItem(id uint) (*models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.cartItems[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (s *MemStorage) AddCartItem(userID, gameID uint, quantity int) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, item := range s.cartItems {
		if item.UserID == userID && item.GameID == gameID {
			item.Quantity += quantity
			s.cartItems[id] = item
			return &item, nil
		}
	}

	item := models.CartItem{
		ID:       s.nextCartItemID,
		UserID:   userID,
		GameID:   gameID,
		Quantity: quantity,
	}
	s.nextCartItemID++
	s.cartItems[item.ID] = item
	return &item, nil
}

func (s *MemStorage) UpdateCartItemQuantity(id uint, quantity int) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cartItems[id]
	if !ok {
		return nil, ErrNotFound
	}
	item.Quantity = quantity
	s.cartItems[id] = item
	return &item, nil
}

func (s *MemStorage) RemoveCartItem(id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.cartItems[id]
	delete(s.cartItems, id)
	return ok, nil
}

func (s *MemStorage) ClearCart(userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, item := range s.cartItems {
		if item.UserID == userID {
			delete(s.cartItems, id)
		}
	}
	return nil
}

// --- Order operations ---

func (s *MemStorage) CreateOrder(order *models.Order, items []models.OrderItem) error {
	if len(items) == 0 {
		return ErrEmptyOrder
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = s.nextOrderID
	s.nextOrderID++
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	order.CreatedAt = time.Now()
	s.orders[order.ID] = *order

	for i := range items {
		items[i].ID = s.nextOrderItemID
		s.nextOrderItemID++
		items[i].OrderID = order.ID
		s.orderItems[items[i].ID] = items[i]
	}
	return nil
}

func (s *MemStorage) GetOrders(userID uint) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]models.Order, 0)
	for _, order := range s.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (s *MemStorage) GetOrder(id uint) (*models.OrderWithItems, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}

	items := make([]models.OrderItemWithGame, 0)
	for _, item := range s.orderItems {
		if item.OrderID != id {
			continue
		}
		items = append(items, models.OrderItemWithGame{
			OrderItem: item,
			Game:      s.games[item.GameID],
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return &models.OrderWithItems{Order: order, Items: items}, nil
}
