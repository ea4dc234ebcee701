package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Mkaify/Nova-Threads/internal/account"
	"github.com/Mkaify/Nova-Threads/internal/cart"
	"github.com/Mkaify/Nova-Threads/internal/catalog"
	"github.com/Mkaify/Nova-Threads/internal/checkout"
	h "github.com/Mkaify/Nova-Threads/internal/http"
	"github.com/Mkaify/Nova-Threads/internal/newsletter"
	"github.com/Mkaify/Nova-Threads/internal/notify"
	"github.com/Mkaify/Nova-Threads/internal/reviews"
	"github.com/Mkaify/Nova-Threads/internal/supabase"
)

type Config struct {
	HTTPPort          string
	SupabaseURL       string
	SupabaseAPIKey    string
	SupabaseJWTSecret string
	RedisAddr         string
	RedisPassword     string
	SecureCookies     bool
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
}

func loadConfig() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		SupabaseURL:       getEnv("SUPABASE_URL", ""),
		SupabaseAPIKey:    getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		SecureCookies:     getEnv("COOKIE_SECURE", "true") == "true",
		RequestTimeout:    30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	client, err := supabase.New(supabase.Config{
		ProjectURL: cfg.SupabaseURL,
		APIKey:     cfg.SupabaseAPIKey,
		JWTSecret:  cfg.SupabaseJWTSecret,
		Timeout:    cfg.RequestTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to create supabase client: %v", err)
	}

	// Cart storage: Redis when configured, otherwise in-process memory.
	var storage cart.Storage
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Redis connection failed:", err)
		}
		log.Printf("Connected to redis at %s", cfg.RedisAddr)
		storage = cart.NewRedisStorage(redisClient)
	} else {
		log.Printf("REDIS_ADDR not set, carts will not survive restarts")
		storage = cart.NewMemoryStorage()
	}

	notifier := notify.LogNotifier{}
	carts := cart.NewManager(storage, notifier)
	cat := catalog.New(client)
	flow := checkout.NewFlow(client, notifier)
	reviewSvc := reviews.New(client)
	accountSvc := account.New(client)
	newsletterSvc := newsletter.New(client)

	router := h.NewRouter(h.RouterConfig{
		Products:       h.NewProductHandler(cat, client),
		Cart:           h.NewCartHandler(carts, cat),
		Checkout:       h.NewCheckoutHandler(flow, carts),
		Reviews:        h.NewReviewHandler(reviewSvc),
		Auth:           h.NewAuthHandler(client),
		Account:        h.NewAccountHandler(accountSvc),
		Newsletter:     h.NewNewsletterHandler(newsletterSvc),
		TokenVerifier:  client,
		RequestTimeout: cfg.RequestTimeout,
		SecureCookies:  cfg.SecureCookies,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
