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

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/tutorlink/platform/internal/api"
	"github.com/tutorlink/platform/internal/auth"
	"github.com/tutorlink/platform/internal/config"
	"github.com/tutorlink/platform/internal/events"
	"github.com/tutorlink/platform/internal/realtime"
	"github.com/tutorlink/platform/internal/repository/postgres"
	"github.com/tutorlink/platform/internal/service/booking"
	"github.com/tutorlink/platform/internal/service/notify"
	"github.com/tutorlink/platform/internal/service/schedule"
)

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("database.url (or DATABASE_URL) is required")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	if err := db.Ping(); err != nil {
		log.Fatalf("Database unreachable: %v", err)
	}
	log.Println("Connected to database")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is optional: without it the realtime hub runs single-instance.
	var backplane realtime.Backplane
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("Redis unreachable: %v", err)
		}
		defer rdb.Close()
		backplane = realtime.NewRedisBackplane(rdb)
		log.Printf("Realtime backplane: redis (%s)", cfg.Redis.Addr)
	} else {
		backplane = realtime.NewLocalBackplane()
		log.Println("Realtime backplane: local (single instance)")
	}

	// Repositories
	bookingRepo := postgres.NewBookingRepo(db)
	scheduleRepo := postgres.NewScheduleRepo(db)
	notifyRepo := postgres.NewNotificationRepo(db)
	userRepo := postgres.NewUserRepo(db)

	// Realtime hub
	tokens := realtime.NewTokenSigner(cfg.Auth.SessionSecret)
	hub := realtime.NewHub(tokens, backplane)
	if err := hub.Start(ctx); err != nil {
		log.Fatalf("Failed to start realtime hub: %v", err)
	}

	// Domain event bus and services
	bus := events.NewBus(64)
	defer bus.Close()

	schedules := schedule.NewService(scheduleRepo)
	bookings := booking.NewService(bookingRepo, schedules, bus)

	var mailer notify.Mailer
	if m := notify.NewSESMailer(cfg.Email.AccessKey, cfg.Email.SecretKey, cfg.Email.Region, cfg.Email.FromEmail); m != nil {
		mailer = m
		log.Println("Email notifications enabled (SES)")
	}
	notifications := notify.NewService(notifyRepo, userRepo, hub, mailer)

	// The dispatcher consumes every booking transition published on the bus.
	go notifications.Run(ctx, bus.Subscribe("dispatcher"))

	authManager := auth.NewManager(&cfg.Auth, userRepo)
	authManager.CleanupExpiredSessions()

	h := api.NewHandlers(schedules, bookings, notifications, hub, tokens,
		cfg.Payments.WebhookSecret, cfg.Payments.SignatureHeader, db)
	router := api.SetupRoutes(h, authManager, cfg.Server.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
