package dto

import "aniverse/internal/microservices/http-api/models"

type GenreRequest struct {
	Title string `json:"title" binding:"required,max=128"`
}

type StudioRequest struct {
	Title string `json:"title" binding:"required,max=255"`
}

type GenreResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type StudioResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func ToGenre(g models.Genre) GenreResponse {
	return GenreResponse{ID: g.ID, Title: g.Title}
}

func ToStudio(s models.Studio) StudioResponse {
	return StudioResponse{ID: s.ID, Title: s.Title}
}
