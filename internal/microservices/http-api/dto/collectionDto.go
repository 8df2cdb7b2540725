package dto

import "aniverse/internal/microservices/http-api/models"

// CollectionRequest names a collection and the anime in it (by title).
type CollectionRequest struct {
	Title string   `json:"title" binding:"required,max=128"`
	Anime []string `json:"anime" binding:"dive,required"`
}

type CollectionResponse struct {
	ID    int64    `json:"id"`
	Title string   `json:"title"`
	User  string   `json:"user"`
	Anime []string `json:"anime"`
}

func ToCollection(c models.Collection) CollectionResponse {
	titles := make([]string, 0, len(c.Animes))
	for _, a := range c.Animes {
		titles = append(titles, a.Title)
	}
	return CollectionResponse{
		ID:    c.ID,
		Title: c.Title,
		User:  c.Profile.Nickname,
		Anime: titles,
	}
}
