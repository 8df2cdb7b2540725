package service

import (
	"context"

	"aniverse/internal/microservices/http-api/models"
	"aniverse/internal/microservices/http-api/policy"
	"aniverse/internal/microservices/http-api/repository"
)

type NotificationService interface {
	GetUnread(ctx context.Context, caller *policy.Identity) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, caller *policy.Identity, notificationID int64) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) GetUnread(ctx context.Context, caller *policy.Identity) ([]models.Notification, error) {
	if err := policy.Evaluate(caller, policy.ActionList, policy.Class(policy.KindNotification)); err != nil {
		return nil, err
	}
	return s.repo.GetUnreadByProfile(ctx, caller.ProfileID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, caller *policy.Identity, notificationID int64) error {
	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return notFound(err, "get notification")
	}
	if err := policy.Evaluate(caller, policy.ActionUpdate, policy.Owned(policy.KindNotification, n.ProfileID)); err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, notificationID)
}
