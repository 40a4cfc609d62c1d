package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"gamestore/internal/models"
	"gamestore/internal/services"
	"gamestore/internal/storage"
)

// CatalogHandler handles HTTP requests for games, categories and platforms.
// Catalog reads are public; game creation sits behind authentication.
type CatalogHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	gameRoutes := router.Group("/games")
	gameRoutes.Get("/", h.HandleGetGames)
	gameRoutes.Get("/featured", h.HandleGetFeaturedGames)
	gameRoutes.Get("/new-releases", h.HandleGetNewReleases)
	gameRoutes.Get("/top-rated", h.HandleGetTopRatedGames)
	gameRoutes.Get("/search", h.HandleSearchGames)
	gameRoutes.Get("/category/:categoryId", h.HandleGetGamesByCategory)
	gameRoutes.Get("/:id", h.HandleGetGameByID)

	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategoryByID)

	router.Get("/platforms", h.HandleGetPlatforms)
}

// RegisterProtectedRoutes registers catalog routes that require auth.
func (h *CatalogHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Post("/games", h.HandleCreateGame)
}

func (h *CatalogHandler) HandleGetGames(c *fiber.Ctx) error {
	games, err := h.service.GetGames()
	if err != nil {
		log.Printf("Error getting games: %v", err)
		return internalError(c, "Could not retrieve games")
	}
	return c.JSON(games)
}

func (h *CatalogHandler) HandleGetFeaturedGames(c *fiber.Ctx) error {
	games, err := h.service.GetFeaturedGames()
	if err != nil {
		log.Printf("Error getting featured games: %v", err)
		return internalError(c, "Could not retrieve featured games")
	}
	return c.JSON(games)
}

func (h *CatalogHandler) HandleGetNewReleases(c *fiber.Ctx) error {
	games, err := h.service.GetNewReleases()
	if err != nil {
		log.Printf("Error getting new releases: %v", err)
		return internalError(c, "Could not retrieve new releases")
	}
	return c.JSON(games)
}

func (h *CatalogHandler) HandleGetTopRatedGames(c *fiber.Ctx) error {
	games, err := h.service.GetTopRatedGames()
	if err != nil {
		log.Printf("Error getting top rated games: %v", err)
		return internalError(c, "Could not retrieve top rated games")
	}
	return c.JSON(games)
}

func (h *CatalogHandler) HandleSearchGames(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Search query parameter 'q' is required",
		})
	}
	games, err := h.service.SearchGames(query)
	if err != nil {
		log.Printf("Error searching games for %q: %v", query, err)
		return internalError(c, "Could not search games")
	}
	return c.JSON(games)
}

func (h *CatalogHandler) HandleGetGamesByCategory(c *fiber.Ctx) error {
	categoryID, err := parseID(c.Params("categoryId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid category ID",
		})
	}
	games, err := h.service.GetGamesByCategory(categoryID)
	if err != nil {
		log.Printf("Error getting games for category %d: %v", categoryID, err)
		return internalError(c, "Could not retrieve games")
	}
	return c.JSON(games)
}

func (h *CatalogHandler) HandleGetGameByID(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid game ID",
		})
	}
	game, err := h.service.GetGame(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Game not found",
			})
		}
		log.Printf("Error getting game %d: %v", id, err)
		return internalError(c, "Could not retrieve game")
	}
	return c.JSON(game)
}

func (h *CatalogHandler) HandleCreateGame(c *fiber.Ctx) error {
	var game models.Game
	if err := c.BodyParser(&game); err != nil {
		log.Printf("Error parsing game request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(game); err != nil {
		return validationErrorResponse(c, err)
	}
	if err := h.service.CreateGame(&game); err != nil {
		log.Printf("Error creating game: %v", err)
		return internalError(c, "Could not create game")
	}
	return c.Status(fiber.StatusCreated).JSON(game)
}

func (h *CatalogHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetCategories()
	if err != nil {
		log.Printf("Error getting categories: %v", err)
		return internalError(c, "Could not retrieve categories")
	}
	return c.JSON(categories)
}

func (h *CatalogHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid category ID",
		})
	}
	category, err := h.service.GetCategory(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Category not found",
			})
		}
		log.Printf("Error getting category %d: %v", id, err)
		return internalError(c, "Could not retrieve category")
	}
	return c.JSON(category)
}

func (h *CatalogHandler) HandleGetPlatforms(c *fiber.Ctx) error {
	platforms, err := h.service.GetPlatforms()
	if err != nil {
		log.Printf("Error getting platforms: %v", err)
		return internalError(c, "Could not retrieve platforms")
	}
	return c.JSON(platforms)
}

// parseID parses a decimal path parameter into a uint id.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
	})
}
