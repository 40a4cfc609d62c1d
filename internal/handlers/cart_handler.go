package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"gamestore/internal/middleware"
	"gamestore/internal/services"
	"gamestore/internal/storage"
)

// CartHandler handles HTTP requests for the authenticated user's cart. It
// owns the ownership checks: the storage layer knows nothing about which
// user may touch which cart item.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes. All of them require auth.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddToCart)
	cartRoutes.Put("/:id", h.HandleUpdateQuantity)
	cartRoutes.Delete("/:id", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// HandleGetCart returns the caller's cart items joined with their games.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	items, err := h.service.GetCart(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting cart: %v", err)
		return internalError(c, "Could not retrieve cart")
	}
	return c.JSON(items)
}

// AddToCartRequest represents the request body for adding a game to the cart.
type AddToCartRequest struct {
	GameID   uint `json:"gameId" validate:"required"`
	Quantity int  `json:"quantity" validate:"omitempty,gte=1"`
}

// HandleAddToCart adds a game to the caller's cart. Adding a game that is
// already in the cart increments its quantity.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-to-cart request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.service.AddToCart(middleware.UserID(c), req.GameID, req.Quantity)
	if err != nil {
		log.Printf("Error adding game %d to cart: %v", req.GameID, err)
		return internalError(c, "Could not add item to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateQuantityRequest represents the request body for a quantity update.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// HandleUpdateQuantity overwrites the quantity of one of the caller's cart
// items. 404 when the item does not exist, 403 when it belongs to someone
// else.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid cart item ID",
		})
	}

	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing quantity update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.checkOwnership(c, id); err != nil {
		return err
	}

	item, err := h.service.UpdateQuantity(id, req.Quantity)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return cartItemNotFound(c)
		}
		log.Printf("Error updating cart item %d: %v", id, err)
		return internalError(c, "Could not update cart item")
	}
	return c.JSON(item)
}

// HandleRemoveItem deletes one of the caller's cart items.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid cart item ID",
		})
	}

	if err := h.checkOwnership(c, id); err != nil {
		return err
	}

	removed, err := h.service.RemoveItem(id)
	if err != nil {
		log.Printf("Error removing cart item %d: %v", id, err)
		return internalError(c, "Could not remove cart item")
	}
	if !removed {
		return cartItemNotFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleClearCart deletes every cart item owned by the caller.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(middleware.UserID(c)); err != nil {
		log.Printf("Error clearing cart: %v", err)
		return internalError(c, "Could not clear cart")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// checkOwnership responds 404 when the cart item does not exist and 403 when
// it is owned by another user. A nil return means the caller may proceed.
func (h *CartHandler) checkOwnership(c *fiber.Ctx, id uint) error {
	item, err := h.service.GetCartItem(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return cartItemNotFound(c)
		}
		log.Printf("Error looking up cart item %d: %v", id, err)
		return internalError(c, "Could not retrieve cart item")
	}
	if item.UserID != middleware.UserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You don't have permission to modify this cart item",
		})
	}
	return nil
}

func cartItemNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": "Cart item not found",
	})
}
