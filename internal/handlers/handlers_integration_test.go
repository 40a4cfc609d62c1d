package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gamestore/internal/handlers"
	"gamestore/internal/middleware"
	"gamestore/internal/models"
	"gamestore/internal/services"
	"gamestore/internal/storage"
)

var testDBCounter int64

// setupApp wires a Fiber app the way main does, on a fresh in-memory SQLite
// database, with catalog seed data loaded.
func setupApp(t *testing.T) (*fiber.App, storage.Storage) {
	t.Helper()

	name := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{})
	require.NoError(t, err)

	store := storage.NewGormStorage(db)
	require.NoError(t, store.AutoMigrate())
	require.NoError(t, storage.Seed(store))

	authService := services.NewAuthService(store, "test_jwt_secret")
	catalogService := services.NewCatalogService(store)
	cartService := services.NewCartService(store)
	orderService := services.NewOrderService(store, nil)

	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New()
	api := app.Group("/api")

	catalogHandler.RegisterRoutes(api)
	authHandler.RegisterRoutes(api)

	protected := api.Group("", middleware.AuthRequired(authService))
	cartHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)
	authHandler.RegisterProtectedRoutes(protected)
	catalogHandler.RegisterProtectedRoutes(protected)

	return app, store
}

// registerAndLogin creates a user through the API and returns a bearer token.
func registerAndLogin(t *testing.T, app *fiber.App, username, email string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	resp := doRequest(t, app, http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	body, _ = json.Marshal(map[string]string{
		"username": username,
		"password": "password123",
	})
	resp = doRequest(t, app, http.MethodPost, "/api/auth/login", body, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	resp.Body.Close()
	require.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body []byte, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	return out
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, _ := setupApp(t)

	token := registerAndLogin(t, app, "testuser", "test@example.com")

	// Duplicate registration conflicts.
	body, _ := json.Marshal(map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "password123",
	})
	resp := doRequest(t, app, http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Profile round trip; the password hash is never serialized.
	resp = doRequest(t, app, http.MethodGet, "/api/user/profile", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decodeJSON[map[string]interface{}](t, resp)
	assert.Equal(t, "testuser", profile["username"])
	assert.NotContains(t, profile, "password")
}

func TestCatalogIsPublic(t *testing.T) {
	app, _ := setupApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/games", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	games := decodeJSON[[]models.Game](t, resp)
	assert.NotEmpty(t, games)

	resp = doRequest(t, app, http.MethodGet, "/api/games/featured", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	featured := decodeJSON[[]models.Game](t, resp)
	for _, game := range featured {
		assert.True(t, game.IsFeatured)
	}

	resp = doRequest(t, app, http.MethodGet, "/api/games/search?q=elden", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	results := decodeJSON[[]models.Game](t, resp)
	require.Len(t, results, 1)
	assert.Equal(t, "Elden Ring", results[0].Title)

	resp = doRequest(t, app, http.MethodGet, "/api/games/search", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/api/categories", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	categories := decodeJSON[[]models.Category](t, resp)
	assert.Len(t, categories, 8)

	resp = doRequest(t, app, http.MethodGet, "/api/platforms", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	platforms := decodeJSON[[]models.Platform](t, resp)
	assert.Len(t, platforms, 6)

	resp = doRequest(t, app, http.MethodGet, "/api/games/99999", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCartRequiresAuth(t *testing.T) {
	app, _ := setupApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/cart", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	body, _ := json.Marshal(map[string]interface{}{"gameId": 1})
	resp = doRequest(t, app, http.MethodPost, "/api/cart", body, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestCartFlow(t *testing.T) {
	app, _ := setupApp(t)
	token := registerAndLogin(t, app, "cartuser", "cart@example.com")

	// Add a game; quantity defaults to 1.
	body, _ := json.Marshal(map[string]interface{}{"gameId": 1})
	resp := doRequest(t, app, http.MethodPost, "/api/cart", body, token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	item := decodeJSON[models.CartItem](t, resp)
	assert.Equal(t, 1, item.Quantity)

	// Adding the same game increments the existing row.
	resp = doRequest(t, app, http.MethodPost, "/api/cart", body, token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	incremented := decodeJSON[models.CartItem](t, resp)
	assert.Equal(t, item.ID, incremented.ID)
	assert.Equal(t, 2, incremented.Quantity)

	resp = doRequest(t, app, http.MethodGet, "/api/cart", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	cart := decodeJSON[[]models.CartItemWithGame](t, resp)
	require.Len(t, cart, 1)
	assert.NotEmpty(t, cart[0].Game.Title)

	// Quantity update.
	body, _ = json.Marshal(map[string]int{"quantity": 5})
	resp = doRequest(t, app, http.MethodPut, fmt.Sprintf("/api/cart/%d", item.ID), body, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeJSON[models.CartItem](t, resp)
	assert.Equal(t, 5, updated.Quantity)

	// Non-positive quantities are rejected.
	body, _ = json.Marshal(map[string]int{"quantity": 0})
	resp = doRequest(t, app, http.MethodPut, fmt.Sprintf("/api/cart/%d", item.ID), body, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Remove, then removing again is a 404.
	resp = doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/cart/%d", item.ID), nil, token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	resp = doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/cart/%d", item.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Clear cart.
	body, _ = json.Marshal(map[string]interface{}{"gameId": 2})
	resp = doRequest(t, app, http.MethodPost, "/api/cart", body, token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = doRequest(t, app, http.MethodDelete, "/api/cart", nil, token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	resp = doRequest(t, app, http.MethodGet, "/api/cart", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	cart = decodeJSON[[]models.CartItemWithGame](t, resp)
	assert.Empty(t, cart)
}

func TestCartOwnershipIsEnforcedByHandlers(t *testing.T) {
	app, _ := setupApp(t)
	ownerToken := registerAndLogin(t, app, "owner", "owner@example.com")
	intruderToken := registerAndLogin(t, app, "intruder", "intruder@example.com")

	body, _ := json.Marshal(map[string]interface{}{"gameId": 1})
	resp := doRequest(t, app, http.MethodPost, "/api/cart", body, ownerToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	item := decodeJSON[models.CartItem](t, resp)

	body, _ = json.Marshal(map[string]int{"quantity": 3})
	resp = doRequest(t, app, http.MethodPut, fmt.Sprintf("/api/cart/%d", item.ID), body, intruderToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/cart/%d", item.ID), nil, intruderToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The owner still holds an untouched item.
	resp = doRequest(t, app, http.MethodGet, "/api/cart", nil, ownerToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	cart := decodeJSON[[]models.CartItemWithGame](t, resp)
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestOrderPlacement(t *testing.T) {
	app, store := setupApp(t)
	token := registerAndLogin(t, app, "buyer", "buyer@example.com")

	// Ordering with an empty cart is rejected before the store is touched.
	body, _ := json.Marshal(map[string]interface{}{"total": 0})
	resp := doRequest(t, app, http.MethodPost, "/api/orders", body, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Seed game 2 (Horizon Forbidden West) carries a 44.99 discount; add it
	// twice for a quantity of 2.
	body, _ = json.Marshal(map[string]interface{}{"gameId": 2})
	for i := 0; i < 2; i++ {
		resp = doRequest(t, app, http.MethodPost, "/api/cart", body, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	body, _ = json.Marshal(map[string]interface{}{"total": 89.98})
	resp = doRequest(t, app, http.MethodPost, "/api/orders", body, token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decodeJSON[models.Order](t, resp)
	assert.NotZero(t, order.ID)
	assert.Equal(t, 89.98, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	// The cart is cleared by the order placement.
	resp = doRequest(t, app, http.MethodGet, "/api/cart", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	cart := decodeJSON[[]models.CartItemWithGame](t, resp)
	assert.Empty(t, cart)

	// The order is readable with its line items, priced at the discount.
	resp = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	placed := decodeJSON[models.OrderWithItems](t, resp)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, uint(2), placed.Items[0].GameID)
	assert.Equal(t, 2, placed.Items[0].Quantity)
	assert.Equal(t, 44.99, placed.Items[0].Price)

	// The item's game join reflects the current catalog record.
	game, err := store.GetGame(2)
	require.NoError(t, err)
	assert.Equal(t, game.Title, placed.Items[0].Game.Title)

	// Order listing.
	resp = doRequest(t, app, http.MethodGet, "/api/orders", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	orders := decodeJSON[[]models.Order](t, resp)
	assert.Len(t, orders, 1)

	// Missing and foreign orders.
	resp = doRequest(t, app, http.MethodGet, "/api/orders/99999", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	otherToken := registerAndLogin(t, app, "other", "other@example.com")
	resp = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), nil, otherToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}
