package models

// CartItem is one game in a user's cart. The unique (user_id, game_id) index
// enforces at most one row per user and game; adding the same game again
// increments the quantity instead.
type CartItem struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	UserID   uint `json:"userId" gorm:"not null;uniqueIndex:idx_cart_user_game"`
	GameID   uint `json:"gameId" gorm:"not null;uniqueIndex:idx_cart_user_game"`
	Quantity int  `json:"quantity" gorm:"not null;default:1" validate:"gte=1"`
}

// CartItemWithGame joins a cart item to the current catalog record of its game.
type CartItemWithGame struct {
	CartItem
	Game Game `json:"game"`
}
