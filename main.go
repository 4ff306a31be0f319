package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/openledgerhq/payrecon-backend/handlers"
	"github.com/openledgerhq/payrecon-backend/kafka"
	"github.com/openledgerhq/payrecon-backend/repository"
	"github.com/openledgerhq/payrecon-backend/routes"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Initialize New Relic
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("PayRecon API"),
		newrelic.ConfigLicense(os.Getenv("NEW_RELIC_LICENSE_KEY")),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize New Relic: %v", err)
	}

	// Initialize database
	if err := repository.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer repository.CloseDB()

	if err := repository.EnsureSchema(); err != nil {
		log.Fatalf("Failed to apply database schema: %v", err)
	}

	// Wire repositories and services
	handlerServices := handlers.NewHandlerServices(repository.GetDB())

	// Optionally consume payout notifications from a broker; the HTTP
	// ingestion endpoint stays available either way.
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		topic := os.Getenv("KAFKA_TOPIC")
		if topic == "" {
			topic = "payouts.paid"
		}

		consumer, err := kafka.NewConsumer(broker)
		if err != nil {
			log.Fatalf("Failed to initialize Kafka consumer: %v", err)
		}
		defer consumer.Close()

		if err := consumer.Consume(topic, kafka.PayoutPaidHandler(handlerServices.Ingestion)); err != nil {
			log.Fatalf("Failed to consume topic %s: %v", topic, err)
		}
	}

	// Set up Gin router
	router := gin.Default()

	// Add New Relic middleware
	if app != nil {
		router.Use(nrgin.Middleware(app))
	}

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Change to your frontend URL in production
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Set up routes
	routes.SetupRoutes(router, handlerServices)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	log.Printf("Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
