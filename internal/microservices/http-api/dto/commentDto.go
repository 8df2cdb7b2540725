package dto

import (
	"time"

	"aniverse/internal/microservices/http-api/models"
)

// CommentCreateRequest: the author always comes from the token, never from the body
type CommentCreateRequest struct {
	Anime  string `json:"anime" binding:"required"`
	Parent *int64 `json:"parent"`
	Text   string `json:"text" binding:"required,max=250"`
}

type CommentUpdateRequest struct {
	Text string `json:"text" binding:"required,max=250"`
}

// CommentResponse includes the immediate parent's anime and author for reply-to context.
type CommentResponse struct {
	ID           int64     `json:"id"`
	User         string    `json:"user"`
	Anime        string    `json:"anime"`
	Parent       *int64    `json:"parent"`
	ParentAnime  *string   `json:"parent_anime"`
	ParentAuthor *string   `json:"parent_author"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToComment(c models.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		User:      c.Profile.Nickname,
		Anime:     c.Anime.Title,
		Parent:    c.ParentID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
	if c.Parent != nil {
		anime := c.Parent.Anime.Title
		author := c.Parent.Profile.Nickname
		resp.ParentAnime = &anime
		resp.ParentAuthor = &author
	}
	return resp
}
