package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aniverse/database"
	"aniverse/internal/config"
	"aniverse/internal/microservices/http-api/repository"
	"aniverse/internal/notification"
)

const deliveryTimeout = 30 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("notify worker stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if cfg.RedisURL == "" {
		return errors.New("REDIS_URL is required for the notify worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	client, err := notification.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer client.Close()

	mailer := notification.NewMailer(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	}, logger)
	deliverer := notification.NewDeliverer(repository.NewNotificationRepository(db), mailer, logger)

	pool := notification.NewWorkerPool(cfg.NotifyWorkers, logger)
	pool.Start()

	queue := notification.NewRedisQueue(client, cfg.NotifyQueue, logger)
	err = queue.Consume(ctx, pool, deliverer, deliveryTimeout)

	// let in-flight deliveries finish before the database closes
	pool.Wait()
	return err
}
