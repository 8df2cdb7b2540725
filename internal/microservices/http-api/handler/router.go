package handler

import (
	"context"
	"log/slog"
	"net/http"

	"aniverse/internal/microservices/http-api/middleware"
	"aniverse/internal/microservices/http-api/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// APIPrefix is where every catalog route is mounted.
const APIPrefix = "/catalog_api"

// Services bundles what the router needs; every field must be set.
type Services struct {
	Auth         service.AuthService
	Anime        service.AnimeService
	Genres       service.GenreService
	Studios      service.StudioService
	Ratings      service.RatingService
	Collections  service.CollectionService
	Comments     service.CommentService
	Reviews      service.ReviewService
	Notification service.NotificationService
}

type RouterOptions struct {
	Logger      *slog.Logger
	RateLimiter *middleware.RateLimiter // nil disables limiting
	// HealthCheck backs GET /healthz; nil always reports ok.
	HealthCheck func(ctx context.Context) error
}

func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := RegisterValidators(); err != nil {
		logger.Error("register validators", "error", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	})

	r.GET("/healthz", func(c *gin.Context) {
		if opts.HealthCheck != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
			defer cancel()
			if err := opts.HealthCheck(ctx); err != nil {
				logger.Error("health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group(APIPrefix, middleware.Authenticate(svc.Auth))

	NewAuthHandler(svc.Auth).RegisterRoutes(api)
	NewAnimeHandler(svc.Anime, svc.Ratings).RegisterRoutes(api)
	NewGenreHandler(svc.Genres).RegisterRoutes(api)
	NewStudioHandler(svc.Studios).RegisterRoutes(api)
	NewRatingHandler(svc.Ratings).RegisterRoutes(api)
	NewCollectionHandler(svc.Collections).RegisterRoutes(api)
	NewCommentHandler(svc.Comments).RegisterRoutes(api)
	NewReviewHandler(svc.Reviews).RegisterRoutes(api)
	NewNotificationHandler(svc.Notification).RegisterRoutes(api)

	return r
}
