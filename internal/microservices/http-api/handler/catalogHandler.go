package handler

import (
	"context"
	"net/http"

	"aniverse/internal/microservices/http-api/dto"
	"aniverse/internal/microservices/http-api/middleware"
	"aniverse/internal/microservices/http-api/policy"
	"aniverse/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	svc service.GenreService
}

func NewGenreHandler(svc service.GenreService) *GenreHandler {
	return &GenreHandler{svc: svc}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/genre-list/", h.List)
	rg.GET("/genre-retrieve/:id/", h.Get)
	rg.POST("/genre-create/", middleware.RequirePolicy(policy.ActionCreate, policy.KindGenre), h.Create)
	rg.PUT("/genre-update/:id/", middleware.RequirePolicy(policy.ActionUpdate, policy.KindGenre), h.Update)
	rg.DELETE("/genre-delete/:id/", middleware.RequirePolicy(policy.ActionDelete, policy.KindGenre), h.Delete)
}

func (h *GenreHandler) List(c *gin.Context) {
	page, ok := queryPage(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, total, err := h.svc.List(ctx, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(dto.Map(list, dto.ToGenre), total, page))
}

func (h *GenreHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	genre, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToGenre(*genre))
}

func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.GenreRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	genre, err := h.svc.Create(ctx, middleware.IdentityFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToGenre(*genre))
}

func (h *GenreHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.GenreRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	genre, err := h.svc.Update(ctx, middleware.IdentityFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToGenre(*genre))
}

// Delete also removes every anime tagged with the genre.
func (h *GenreHandler) Delete(c *gin.Context) {
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

type StudioHandler struct {
	svc service.StudioService
}

func NewStudioHandler(svc service.StudioService) *StudioHandler {
	return &StudioHandler{svc: svc}
}

func (h *StudioHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/studio-list/", h.List)
	rg.GET("/studio-retrieve/:id/", h.Get)
	rg.POST("/studio-create/", middleware.RequirePolicy(policy.ActionCreate, policy.KindStudio), h.Create)
	rg.PUT("/studio-update/:id/", middleware.RequirePolicy(policy.ActionUpdate, policy.KindStudio), h.Update)
	rg.DELETE("/studio-delete/:id/", middleware.RequirePolicy(policy.ActionDelete, policy.KindStudio), h.Delete)
}

func (h *StudioHandler) List(c *gin.Context) {
	page, ok := queryPage(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, total, err := h.svc.List(ctx, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(dto.Map(list, dto.ToStudio), total, page))
}

func (h *StudioHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	studio, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToStudio(*studio))
}

func (h *StudioHandler) Create(c *gin.Context) {
	var req dto.StudioRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	studio, err := h.svc.Create(ctx, middleware.IdentityFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToStudio(*studio))
}

func (h *StudioHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.StudioRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	studio, err := h.svc.Update(ctx, middleware.IdentityFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToStudio(*studio))
}

func (h *StudioHandler) Delete(c *gin.Context) {
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
