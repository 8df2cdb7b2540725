package handler

import (
	"context"
	"net/http"

	"aniverse/internal/microservices/http-api/dto"
	"aniverse/internal/microservices/http-api/middleware"
	"aniverse/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// CollectionHandler serves the caller's own collections; every route needs a login.
type CollectionHandler struct {
	svc service.CollectionService
}

func NewCollectionHandler(svc service.CollectionService) *CollectionHandler {
	return &CollectionHandler{svc: svc}
}

func (h *CollectionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("", middleware.RequireAuth())
	auth.GET("/collections/", h.List)
	auth.POST("/collection-create/", h.Create)
	auth.GET("/collection-retrieve/:id/", h.Get)
	auth.PUT("/collection-update/:id/", h.Update)
	auth.DELETE("/collection-delete/:id/", h.Delete)
}

func (h *CollectionHandler) List(c *gin.Context) {
	page, ok := queryPage(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, total, err := h.svc.List(ctx, middleware.IdentityFrom(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPage(dto.Map(list, dto.ToCollection), total, page))
}

func (h *CollectionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	collection, err := h.svc.Get(ctx, middleware.IdentityFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCollection(*collection))
}

func (h *CollectionHandler) Create(c *gin.Context) {
	var req dto.CollectionRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	collection, err := h.svc.Create(ctx, middleware.IdentityFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCollection(*collection))
}

func (h *CollectionHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CollectionRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	collection, err := h.svc.Update(ctx, middleware.IdentityFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCollection(*collection))
}

func (h *CollectionHandler) Delete(c *gin.Context) {
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
