package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/tutorlink/platform/internal/config"
	"github.com/tutorlink/platform/internal/pkg/distlock"
	"github.com/tutorlink/platform/internal/realtime"
	"github.com/tutorlink/platform/internal/repository/postgres"
	"github.com/tutorlink/platform/internal/service/notify"
	"github.com/tutorlink/platform/internal/worker"
)

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.Reminders.Enabled {
		log.Println("Reminders disabled in config, nothing to do")
		return
	}
	if cfg.Database.URL == "" {
		log.Fatal("database.url (or DATABASE_URL) is required")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Database unreachable: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The worker publishes realtime reminders through the same backplane the
	// servers subscribe on; with redis they reach whichever instance holds
	// the user's SSE connection.
	var rdb *redis.Client
	var backplane realtime.Backplane
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("Redis unreachable: %v", err)
		}
		defer rdb.Close()
		backplane = realtime.NewRedisBackplane(rdb)
	} else {
		backplane = realtime.NewLocalBackplane()
	}

	tokens := realtime.NewTokenSigner(cfg.Auth.SessionSecret)
	hub := realtime.NewHub(tokens, backplane)
	if err := hub.Start(ctx); err != nil {
		log.Fatalf("Failed to start realtime hub: %v", err)
	}

	bookingRepo := postgres.NewBookingRepo(db)
	notifyRepo := postgres.NewNotificationRepo(db)
	userRepo := postgres.NewUserRepo(db)

	var mailer notify.Mailer
	if m := notify.NewSESMailer(cfg.Email.AccessKey, cfg.Email.SecretKey, cfg.Email.Region, cfg.Email.FromEmail); m != nil {
		mailer = m
	}
	notifications := notify.NewService(notifyRepo, userRepo, hub, mailer)

	lock := distlock.NewLock(rdb, db, cfg.Reminders.LockKey, cfg.Reminders.PollInterval())
	w := worker.NewReminderWorker(bookingRepo, notifications, userRepo, lock,
		cfg.Reminders.LeadTime(), cfg.Reminders.PollInterval())

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-done
		log.Println("Shutting down...")
		cancel()
	}()

	w.Run(ctx)
}
