package handler

import (
	"context"
	"net/http"
	"time"

	"aniverse/internal/microservices/http-api/dto"
	"aniverse/internal/microservices/http-api/middleware"
	"aniverse/internal/microservices/http-api/policy"
	"aniverse/internal/microservices/http-api/repository"
	"aniverse/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 5 * time.Second

type AnimeHandler struct {
	svc     service.AnimeService
	ratings service.RatingService
}

func NewAnimeHandler(svc service.AnimeService, ratings service.RatingService) *AnimeHandler {
	return &AnimeHandler{svc: svc, ratings: ratings}
}

func (h *AnimeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Public catalog
	rg.GET("/short-anime/", h.ListShort)
	rg.GET("/full-anime/", h.ListFull)
	rg.GET("/anime-retrieve/:id/", h.Get)
	rg.GET("/anime-retrieve/:id/average-rating/", h.AverageRating)
	rg.GET("/anime-retrieve/:id/rating-count/", h.RatingCount)

	// Staff only
	rg.POST("/anime-create/", middleware.RequirePolicy(policy.ActionCreate, policy.KindAnime), h.Create)
	rg.PUT("/anime-update/:id/", middleware.RequirePolicy(policy.ActionUpdate, policy.KindAnime), h.Update)
	rg.DELETE("/anime-delete/:id/", middleware.RequirePolicy(policy.ActionDelete, policy.KindAnime), h.Delete)
}

// ListShort ignores filter parameters.
func (h *AnimeHandler) ListShort(c *gin.Context) {
	page, ok := queryPage(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, total, err := h.svc.List(ctx, repository.AnimeFilter{}, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(dto.Map(list, dto.ToShortAnime), total, page))
}

func (h *AnimeHandler) ListFull(c *gin.Context) {
	page, ok := queryPage(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	filter := repository.ParseAnimeFilter(c.Request.URL.Query())
	list, total, err := h.svc.List(ctx, filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(dto.Map(list, dto.ToFullAnime), total, page))
}

func (h *AnimeHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	anime, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFullAnime(*anime))
}

func (h *AnimeHandler) AverageRating(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	avg, err := h.ratings.AverageRating(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, avg)
}

func (h *AnimeHandler) RatingCount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	dist, err := h.ratings.Distribution(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dist)
}

func (h *AnimeHandler) Create(c *gin.Context) {
	var req dto.AnimeRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	anime, err := h.svc.Create(ctx, middleware.IdentityFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToFullAnime(*anime))
}

func (h *AnimeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AnimeRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	anime, err := h.svc.Update(ctx, middleware.IdentityFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFullAnime(*anime))
}

func (h *AnimeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.IdentityFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
