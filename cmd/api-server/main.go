package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aniverse/database"
	"aniverse/internal/config"
	"aniverse/internal/microservices/http-api/handler"
	"aniverse/internal/microservices/http-api/middleware"
	"aniverse/internal/microservices/http-api/repository"
	"aniverse/internal/microservices/http-api/service"
	"aniverse/internal/notification"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 15 * time.Second
	deliveryTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("api server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db, logger); err != nil {
		return err
	}

	dispatcher, closeDispatcher, err := newDispatcher(ctx, cfg, db, logger)
	if err != nil {
		return err
	}
	defer closeDispatcher()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	animeRepo := repository.NewAnimeRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	studioRepo := repository.NewStudioRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	services := handler.Services{
		Auth:         service.NewAuthService(userRepo, refreshTokenRepo, cfg),
		Anime:        service.NewAnimeService(animeRepo, genreRepo, studioRepo),
		Genres:       service.NewGenreService(genreRepo),
		Studios:      service.NewStudioService(studioRepo),
		Ratings:      service.NewRatingService(ratingRepo, animeRepo),
		Collections:  service.NewCollectionService(collectionRepo, animeRepo),
		Comments:     service.NewCommentService(commentRepo, animeRepo, dispatcher, cfg.PublicBaseURL, logger),
		Reviews:      service.NewReviewService(reviewRepo, animeRepo),
		Notification: service.NewNotificationService(notificationRepo),
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	router := handler.NewRouter(services, handler.RouterOptions{
		Logger:      logger,
		RateLimiter: limiter,
		HealthCheck: database.Ping(db),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("api server listening", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down api server")
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				limiter.Cleanup()
			}
		}
	})

	return g.Wait()
}

// newDispatcher picks the redis queue when REDIS_URL is set, otherwise an
// in-process pool that delivers with the same Deliverer the worker uses.
func newDispatcher(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *slog.Logger) (notification.Dispatcher, func(), error) {
	if cfg.RedisURL != "" {
		client, err := notification.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("notifications go to redis", "queue", cfg.NotifyQueue)
		return notification.NewRedisQueue(client, cfg.NotifyQueue, logger), func() { client.Close() }, nil
	}

	mailer := notification.NewMailer(smtpConfig(cfg), logger)
	deliverer := notification.NewDeliverer(repository.NewNotificationRepository(db), mailer, logger)

	pool := notification.NewWorkerPool(cfg.NotifyWorkers, logger)
	pool.Start()
	logger.Info("notifications delivered in process", "workers", cfg.NotifyWorkers)

	// drain queued deliveries on shutdown
	return notification.NewPoolDispatcher(pool, deliverer, deliveryTimeout), pool.Wait, nil
}

func smtpConfig(cfg *config.Config) notification.SMTPConfig {
	return notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	}
}
