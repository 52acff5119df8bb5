package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/adapter/handler"
	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/adapter/payment"
	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/adapter/storage"
	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/config"
	"github.com/AhmedSaadRF/Ecommerce-Store-Backend-Server/internal/core/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return fmt.Errorf("open mysql: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping mysql: %w", err)
	}
	log.Println("connected to mysql")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	log.Println("connected to redis")

	// Initialize adapters
	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb)
	verifier := payment.NewStripeVerifier(cfg.StripeWebhookSecret)
	gateway := payment.NewStripeGateway(cfg.StripeAPIKey)

	if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
		return err
	}
	log.Println("schema ensured")

	// Initialize services
	webhookService := service.NewWebhookService(mysqlAdapter, redisAdapter)
	checkoutService := service.NewCheckoutService(mysqlAdapter, gateway)
	stockService := service.NewStockService(mysqlAdapter, redisAdapter)

	if err := stockService.SeedCache(ctx); err != nil {
		return fmt.Errorf("seed stock cache: %w", err)
	}
	log.Println("stock cache seeded")

	// Initialize HTTP server
	webhookHandler := handler.NewWebhookHandler(verifier, webhookService)
	httpHandler := handler.NewHTTPHandler(checkoutService, stockService)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", httpHandler.HealthCheck)
	mux.HandleFunc("/api/v1/payment/webhook", webhookHandler.HandleWebhook)
	mux.HandleFunc("/api/v1/order", httpHandler.PlaceOrder)
	mux.HandleFunc("/api/v1/product/stock", httpHandler.ProductStock)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server: %w", err)
	case <-quit:
	}

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	return nil
}
