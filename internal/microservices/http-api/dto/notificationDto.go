package dto

import (
	"time"

	"aniverse/internal/microservices/http-api/models"
)

type NotificationResponse struct {
	ID        int64     `json:"id"`
	CommentID int64     `json:"comment_id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func ToNotification(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		CommentID: n.CommentID,
		Subject:   n.Subject,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
}
