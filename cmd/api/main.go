package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kervela/product_catalog/internal/config"
	"github.com/kervela/product_catalog/internal/delivery/events"
	graphqlDelivery "github.com/kervela/product_catalog/internal/delivery/graphql"
	httpDelivery "github.com/kervela/product_catalog/internal/delivery/http"
	"github.com/kervela/product_catalog/internal/delivery/http/handler"
	"github.com/kervela/product_catalog/internal/pkg/cache"
	"github.com/kervela/product_catalog/internal/pkg/database"
	"github.com/kervela/product_catalog/internal/pkg/logger"
	cacheRepo "github.com/kervela/product_catalog/internal/repository/cache"
	"github.com/kervela/product_catalog/internal/repository/postgres"
	"github.com/kervela/product_catalog/internal/usecase/product"

	_ "github.com/kervela/product_catalog/docs"
)

// @title Product Catalog API
// @version 1.0
// @description A product catalog service with REST and GraphQL entrypoints, soft deletes and cursor pagination.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @tag.name Products
// @tag.description Product management endpoints

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting Product Catalog API...")

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL successfully")

	if err := database.RunMigrations(db); err != nil {
		appLogger.Fatal("Failed to run migrations", err)
	}

	appLogger.Info("Connecting to Redis...")
	redisClient, err := cache.WaitForRedis(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis successfully")

	appLogger.Info("Connecting to NATS...")
	publisher, err := events.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS publisher", err)
	}
	defer publisher.Close()

	stream := events.NewStreamConfig(publisher.JetStream(), appLogger)
	if err := stream.EnsureStream(); err != nil {
		appLogger.Fatal("Failed to ensure JetStream stream", err)
	}

	productRepo := postgres.NewProductRepository(db)
	productCache := cacheRepo.NewRedisCache(redisClient, cfg.Cache.ProductTTL)

	productService := product.NewService(productRepo, productCache, publisher, appLogger)

	productHandler := handler.NewProductHandler(productService, appLogger)
	graphqlHandler := graphqlDelivery.NewHandler(productService, appLogger)

	router := httpDelivery.NewRouter(productHandler, graphqlHandler, cfg, appLogger)
	httpHandler := router.Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	appLogger.Info("Server stopped gracefully")
}
