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

	"github.com/Happy-Franck/Eventio-sub001/internal/config"
	"github.com/Happy-Franck/Eventio-sub001/internal/infrastructure/dynamo"
	jwtinfra "github.com/Happy-Franck/Eventio-sub001/internal/infrastructure/jwt"
	"github.com/Happy-Franck/Eventio-sub001/internal/infrastructure/kv"
	"github.com/Happy-Franck/Eventio-sub001/internal/infrastructure/smtp"
	"github.com/Happy-Franck/Eventio-sub001/internal/infrastructure/sns"
	transporthttp "github.com/Happy-Franck/Eventio-sub001/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// Cache backend for secrets and rate-limit counters.
	var cache kv.Store
	switch cfg.CacheBackend {
	case "redis":
		cache = kv.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "dynamo":
		cache = kv.NewDynamo(dynamoClient, cfg.DynamoTables.AuthCache)
	default:
		log.Println("WARN: using in-memory cache backend; secrets do not survive restarts")
		cache = kv.NewMemory()
	}

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional — graceful fallback).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		Cache:       cache,
		Mailer:      mailer,
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
		log.Printf("Server starting on :%s (env=%s, cache=%s)", cfg.AppPort, cfg.AppEnv, cfg.CacheBackend)
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
