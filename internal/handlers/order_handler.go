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

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. All of them require auth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandlePlaceOrder)
}

// PlaceOrderRequest represents the request body for order placement. Line
// items are derived server-side from the caller's current cart.
type PlaceOrderRequest struct {
	Total  float64 `json:"total" validate:"gte=0"`
	Status string  `json:"status" validate:"omitempty,max=255"`
}

// HandlePlaceOrder turns the caller's cart into an order and clears the
// cart. 400 when the cart is empty.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var req PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	order, err := h.service.PlaceOrder(middleware.UserID(c), req.Total, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) || errors.Is(err, storage.ErrEmptyOrder) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Cannot create order with empty cart",
			})
		}
		log.Printf("Error placing order: %v", err)
		return internalError(c, "Could not create order")
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders returns the caller's orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetOrders(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting orders: %v", err)
		return internalError(c, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetOrderByID returns one of the caller's orders with its line items.
// 404 when it does not exist, 403 when it belongs to another user.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order ID",
		})
	}

	order, err := h.service.GetOrder(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		log.Printf("Error getting order %d: %v", id, err)
		return internalError(c, "Could not retrieve order")
	}
	if order.UserID != middleware.UserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You don't have permission to view this order",
		})
	}
	return c.JSON(order)
}
