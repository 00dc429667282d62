package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/monocoto3000/products-api/internal/handlers"
	"github.com/monocoto3000/products-api/internal/middleware"
	"github.com/monocoto3000/products-api/internal/models"
	"github.com/monocoto3000/products-api/internal/repositories"
	"github.com/monocoto3000/products-api/internal/services"
	"github.com/monocoto3000/products-api/pkg/rabbitmq"
)

func main() {
	// --- Logging ---
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("AUTH_SECRET", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	databaseDSN := viper.GetString("DATABASE_DSN")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")
	authSecret := viper.GetString("AUTH_SECRET")

	// --- Initialize Repositories ---
	// Postgres when a DSN is configured, in-memory store otherwise.
	var productRepo repositories.ProductRepository
	var categoryRepo repositories.CategoryRepository
	if databaseDSN != "" {
		db, err := gorm.Open(postgres.Open(databaseDSN), &gorm.Config{})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
			log.Fatal().Err(err).Msg("failed to auto-migrate database")
		}
		productRepo = repositories.NewGORMProductRepository(db)
		categoryRepo = repositories.NewGORMCategoryRepository(db)
	} else {
		log.Warn().Msg("DATABASE_DSN not set, using in-memory store")
		productRepo = repositories.NewMockProductRepository()
		categoryRepo = repositories.NewMockCategoryRepository()
	}

	// --- Initialize RabbitMQ Client (optional) ---
	var mqClient *rabbitmq.Client
	var publisher services.StockEventPublisher
	if rabbitMQURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		publisher = mqClient
	} else {
		log.Warn().Msg("RABBITMQ_URL not set, stock events disabled")
	}

	// --- Initialize Services ---
	productService := services.NewProductService(productRepo)
	stockService := services.NewStockService(productRepo, publisher)
	categoryService := services.NewCategoryService(categoryRepo)

	// --- Initialize Handlers ---
	productHandler := handlers.NewProductHandler(productService, stockService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(fiberlogger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	if authSecret != "" {
		apiV1 = apiV1.Group("", middleware.AuthRequired(authSecret))
	}
	productHandler.RegisterRoutes(apiV1)
	categoryHandler.RegisterRoutes(apiV1)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	// Logs every stock event and warns when a mutation left a product at or
	// below the low-stock threshold.
	if mqClient != nil {
		go func() {
			log.Info().Msg("starting RabbitMQ consumer for stock events")
			messageHandler := func(msg amqp.Delivery) error {
				var event rabbitmq.StockEvent
				if err := json.Unmarshal(msg.Body, &event); err != nil {
					log.Error().Err(err).Msg("failed to decode stock event")
					return nil // Drop malformed messages instead of requeueing forever
				}
				log.Info().
					Str("operation", event.Operation).
					Str("product_id", event.ProductID).
					Int("new_stock", event.NewStock).
					Msg("stock event received")
				if event.NewStock <= services.DefaultLowStockThreshold {
					log.Warn().
						Str("product_id", event.ProductID).
						Int("stock", event.NewStock).
						Msg("product is low on stock")
				}
				return nil
			}
			if consumerErr := mqClient.ConsumeStockEvents(messageHandler); consumerErr != nil {
				log.Error().Err(consumerErr).Msg("failed to start RabbitMQ consumer")
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Info().Str("port", appPort).Msg("starting server")

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")

	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during Fiber shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}
