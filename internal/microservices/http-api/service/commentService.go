package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"aniverse/internal/microservices/http-api/dto"
	"aniverse/internal/microservices/http-api/models"
	"aniverse/internal/microservices/http-api/policy"
	"aniverse/internal/microservices/http-api/repository"
	"aniverse/internal/notification"
)

const (
	replySubject  = "You have received a response to your comment"
	notifyTimeout = 5 * time.Second
)

type CommentService interface {
	List(ctx context.Context, animeTitle string, page int) ([]models.Comment, int64, error)
	Get(ctx context.Context, id int64) (*models.Comment, error)
	// Replies lists the direct children of a comment.
	Replies(ctx context.Context, id int64, page int) ([]models.Comment, int64, error)
	Create(ctx context.Context, caller *policy.Identity, req dto.CommentCreateRequest) (*models.Comment, error)
	Update(ctx context.Context, caller *policy.Identity, id int64, req dto.CommentUpdateRequest) (*models.Comment, error)
	// Delete removes the comment and its whole reply subtree.
	Delete(ctx context.Context, caller *policy.Identity, id int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	animeRepo   repository.AnimeRepository
	dispatcher  notification.Dispatcher
	baseURL     string
	logger      *slog.Logger
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	animeRepo repository.AnimeRepository,
	dispatcher notification.Dispatcher,
	baseURL string,
	logger *slog.Logger,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		animeRepo:   animeRepo,
		dispatcher:  dispatcher,
		baseURL:     strings.TrimRight(baseURL, "/"),
		logger:      logger,
	}
}

func (s *commentService) List(ctx context.Context, animeTitle string, page int) ([]models.Comment, int64, error) {
	if page < 1 {
		return nil, 0, ErrInvalidPage
	}
	items, total, err := s.commentRepo.List(ctx, animeTitle, page, dto.PageSize)
	if err != nil {
		return nil, 0, err
	}
	if err := checkPage(page, total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *commentService) Get(ctx context.Context, id int64) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "get comment")
	}
	return comment, nil
}

func (s *commentService) Replies(ctx context.Context, id int64, page int) ([]models.Comment, int64, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		return nil, 0, ErrInvalidPage
	}
	items, total, err := s.commentRepo.ListReplies(ctx, id, page, dto.PageSize)
	if err != nil {
		return nil, 0, err
	}
	if err := checkPage(page, total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Create posts a comment as the caller. A reply must stay on its parent's anime,
// and the parent's author is notified without waiting for delivery.
func (s *commentService) Create(ctx context.Context, caller *policy.Identity, req dto.CommentCreateRequest) (*models.Comment, error) {
	if err := policy.Evaluate(caller, policy.ActionCreate, policy.Class(policy.KindComment)); err != nil {
		return nil, err
	}
	if caller.ProfileID == 0 {
		return nil, ErrForbidden
	}

	verr := &ValidationError{}

	anime, err := s.animeRepo.GetByTitle(ctx, req.Anime)
	if err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("resolve anime: %w", err)
		}
		verr.Add("anime", doesNotExist(req.Anime))
	}

	var parent *models.Comment
	if req.Parent != nil {
		parent, err = s.commentRepo.GetByID(ctx, *req.Parent)
		switch {
		case err == nil:
			if anime != nil && parent.AnimeID != anime.ID {
				verr.Add("parent", "Parent comment belongs to a different anime.")
			}
		case isNotFound(err):
			verr.Add("parent", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *req.Parent))
		default:
			return nil, fmt.Errorf("resolve parent comment: %w", err)
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ProfileID: caller.ProfileID,
		AnimeID:   anime.ID,
		ParentID:  req.Parent,
		Text:      req.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.Get(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	if parent != nil {
		s.notifyReply(parent, created)
	}
	return created, nil
}

func (s *commentService) Update(ctx context.Context, caller *policy.Identity, id int64, req dto.CommentUpdateRequest) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "get comment")
	}
	if err := policy.Evaluate(caller, policy.ActionUpdate, policy.Owned(policy.KindComment, comment.ProfileID)); err != nil {
		return nil, err
	}
	if err := s.commentRepo.UpdateText(ctx, id, req.Text); err != nil {
		return nil, notFound(err, "update comment")
	}
	return s.Get(ctx, id)
}

func (s *commentService) Delete(ctx context.Context, caller *policy.Identity, id int64) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "get comment")
	}
	if err := policy.Evaluate(caller, policy.ActionDelete, policy.Owned(policy.KindComment, comment.ProfileID)); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return notFound(err, "delete comment")
	}
	return nil
}

// notifyReply hands the notice to the dispatcher on its own goroutine so the
// request never waits on the queue. Failures are only logged.
func (s *commentService) notifyReply(parent, reply *models.Comment) {
	task := notification.Task{
		RecipientProfileID: parent.ProfileID,
		CommentID:          reply.ID,
		Subject:            replySubject,
		Message:            s.replyMessage(reply),
	}
	if parent.Profile.User != nil {
		task.RecipientEmail = parent.Profile.User.Email
	} else {
		s.logger.Warn("reply recipient has no user loaded, mail will be skipped",
			"comment_id", reply.ID, "recipient_profile_id", parent.ProfileID)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.dispatcher.Dispatch(ctx, task); err != nil {
			s.logger.Error("reply notification dispatch failed",
				"comment_id", reply.ID,
				"recipient_profile_id", task.RecipientProfileID,
				"error", err)
		}
	}()
}

func (s *commentService) replyMessage(reply *models.Comment) string {
	return fmt.Sprintf("There is a response to your comment:\n\n%s\n\n"+
		"To view the response, click on the following link:\n%s/catalog_api/comment-retrieve/%d/\n\n"+
		"Thank you for participating in the discussion!",
		reply.Text, s.baseURL, reply.ID)
}
