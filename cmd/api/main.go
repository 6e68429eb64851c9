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

	"github.com/joho/godotenv"

	"github.com/bookworm-api/internal/config"
	"github.com/bookworm-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/bookworm-api/internal/infrastructure/jwt"
	"github.com/bookworm-api/internal/infrastructure/memory"
	redisinfra "github.com/bookworm-api/internal/infrastructure/redis"
	s3infra "github.com/bookworm-api/internal/infrastructure/s3"
	"github.com/bookworm-api/internal/infrastructure/sns"
	transporthttp "github.com/bookworm-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	// S3 store for book cover images.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg)

	// SNS SMS sender (optional — in dev the OTP is logged instead of sent).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	// OTP store: Redis when configured so codes survive restarts and are
	// shared across instances, otherwise an in-process map.
	var otpStore transporthttp.OTPStore
	if cfg.RedisAddr != "" {
		client, err := redisinfra.Connect(context.Background(), cfg)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		otpStore = redisinfra.NewOTPStore(client)
		log.Printf("OTP store: redis (%s)", cfg.RedisAddr)
	} else {
		otpStore = memory.NewOTPStore()
		log.Println("OTP store: in-memory")
	}

	deps := &transporthttp.Deps{
		UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		BookRepo:    dynamo.NewBookRepo(dynamoClient, cfg.DynamoTables.Books),
		OTPStore:    otpStore,
		S3Store:     s3Store,
		SMSSender:   smsSender,
		JWTProvider: jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
