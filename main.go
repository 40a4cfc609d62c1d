package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"gamestore/internal/handlers"
	"gamestore/internal/middleware"
	"gamestore/internal/services"
	"gamestore/internal/storage"
	"gamestore/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("STORAGE_DRIVER", "memory")
	viper.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=gamestore port=5432 sslmode=disable")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Storage backend selection ---
	// One Storage implementation is chosen at startup and injected
	// everywhere; the backends are never mixed at runtime.
	store, err := newStorage()
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	if err := storage.Seed(store); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, order events will not be published")
	}

	// --- Services ---
	authService := services.NewAuthService(store, viper.GetString("JWT_SECRET"))
	catalogService := services.NewCatalogService(store)
	cartService := services.NewCartService(store)
	var publisher services.OrderEventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	orderService := services.NewOrderService(store, publisher)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())

	api := app.Group("/api")

	// Public routes: catalog browsing and authentication.
	catalogHandler.RegisterRoutes(api)
	authHandler.RegisterRoutes(api)

	// Protected routes: cart, orders, profile, game creation.
	protected := api.Group("", middleware.AuthRequired(authService))
	cartHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)
	authHandler.RegisterProtectedRoutes(protected)
	catalogHandler.RegisterProtectedRoutes(protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order event consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			handler := func(msg amqp.Delivery) error {
				log.Printf("Received order event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeOrderEvents(handler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newStorage builds the storage backend named by STORAGE_DRIVER: "memory"
// for the map-backed store, "postgres" for the GORM-backed one.
func newStorage() (storage.Storage, error) {
	switch driver := viper.GetString("STORAGE_DRIVER"); driver {
	case "memory":
		log.Println("Using in-memory storage")
		return storage.NewMemStorage(), nil
	case "postgres":
		dsn := viper.GetString("DATABASE_DSN")
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		gs := storage.NewGormStorage(db)
		if err := gs.AutoMigrate(); err != nil {
			return nil, err
		}
		log.Println("Using PostgreSQL storage")
		return gs, nil
	default:
		log.Fatalf("Unknown STORAGE_DRIVER %q (want \"memory\" or \"postgres\")", driver)
		return nil, nil
	}
}
