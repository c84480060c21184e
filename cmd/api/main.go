package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"

	rediscache "github.com/ratio91/NFT-event-tickets/internal/adapter/cache/redis"
	"github.com/ratio91/NFT-event-tickets/internal/adapter/handler"
	"github.com/ratio91/NFT-event-tickets/internal/adapter/messaging/kafka"
	"github.com/ratio91/NFT-event-tickets/internal/adapter/repository/postgres"
	"github.com/ratio91/NFT-event-tickets/internal/core/domain"
	"github.com/ratio91/NFT-event-tickets/internal/core/registry"
	"github.com/ratio91/NFT-event-tickets/internal/core/services"
	"github.com/ratio91/NFT-event-tickets/internal/platform/database"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return parsed
}

func eventConfigFromEnv() domain.EventConfig {
	return domain.EventConfig{
		Name:               getenv("EVENT_NAME", "MyConcert"),
		Symbol:             getenv("EVENT_SYMBOL", "MC"),
		StartDate:          getenvInt64("EVENT_START_DATE", time.Now().Add(30*24*time.Hour).Unix()),
		SupplyCap:          uint64(getenvInt64("EVENT_SUPPLY_CAP", 100)),
		BasePrice:          getenvInt64("EVENT_BASE_PRICE", 100),
		PriceMultipleCap:   getenvInt64("EVENT_PRICE_MULTIPLE_CAP", 2),
		TransferFeePercent: getenvInt64("EVENT_TRANSFER_FEE_PERCENT", 20),
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using OS environment.")
	}

	issuer, err := uuid.Parse(getenv("ISSUER_ID", ""))
	if err != nil {
		log.Fatalf("ISSUER_ID must be a valid UUID: %v", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	reg, err := registry.New(eventConfigFromEnv(), issuer)
	if err != nil {
		log.Fatalf("Invalid event configuration: %v", err)
	}

	dbConfig := database.Config{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "postgres"),
		Password: getenv("DB_PASSWORD", ""),
		DBName:   getenv("DB_NAME", "event_tickets"),
	}

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to db after retries: %v", err)
	}
	defer db.Close()

	journal := postgres.NewJournalRepository(db)
	if err := journal.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to prepare journal schema: %v", err)
	}

	redisHost := getenv("REDIS_HOST", "localhost")
	redisPort := getenv("REDIS_PORT", "6379")

	log.Printf("Connecting to Redis at %s:%s...", redisHost, redisPort)

	redisClient := goredis.NewClient(&goredis.Options{
		Addr: fmt.Sprintf("%s:%s", redisHost, redisPort),
		DB:   0,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Redis connected successfully!")

	ticketCache := rediscache.NewTicketCache(redisClient, 30*time.Second)

	brokers := strings.Split(getenv("KAFKA_BROKERS", "localhost:9092"), ",")
	topic := getenv("KAFKA_TOPIC", "ticket-events")

	producer := kafka.NewProducer(brokers, topic)
	defer producer.Close()

	consumer := kafka.NewConsumer(brokers, topic, getenv("KAFKA_GROUP_ID", "ticket-journal"))
	consumer.Start(journal.Append)
	defer consumer.Stop()
	log.Println("Notification pipeline started (kafka -> journal)")

	ticketService := services.NewTicketService(reg, producer, journal, ticketCache)

	ticketHandler := handler.NewTicketHandler(ticketService)

	router := gin.Default()
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(handler.AuthMiddleware([]byte(jwtSecret)))
	ticketHandler.Register(api)

	server := &http.Server{
		Addr:         ":" + getenv("PORT", "8080"),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
