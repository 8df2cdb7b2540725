package service

import (
	"context"
	"errors"
	"fmt"

	"aniverse/internal/microservices/http-api/dto"
	"aniverse/internal/microservices/http-api/models"
	"aniverse/internal/microservices/http-api/policy"
	"aniverse/internal/microservices/http-api/repository"
)

const msgAlreadyReviewed = "The fields user, anime must make a unique set."

type ReviewService interface {
	List(ctx context.Context, animeTitle string, page int) ([]models.Review, int64, error)
	Get(ctx context.Context, id int64) (*models.Review, error)
	// Create allows one review per (profile, anime); a second attempt is a validation error.
	Create(ctx context.Context, caller *policy.Identity, req dto.ReviewCreateRequest) (*models.Review, error)
	Update(ctx context.Context, caller *policy.Identity, id int64, req dto.ReviewUpdateRequest) (*models.Review, error)
	Delete(ctx context.Context, caller *policy.Identity, id int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	animeRepo  repository.AnimeRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, animeRepo repository.AnimeRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		animeRepo:  animeRepo,
	}
}

func (s *reviewService) List(ctx context.Context, animeTitle string, page int) ([]models.Review, int64, error) {
	if page < 1 {
		return nil, 0, ErrInvalidPage
	}
	items, total, err := s.reviewRepo.List(ctx, animeTitle, page, dto.PageSize)
	if err != nil {
		return nil, 0, err
	}
	if err := checkPage(page, total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *reviewService) Get(ctx context.Context, id int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "get review")
	}
	return review, nil
}

func (s *reviewService) Create(ctx context.Context, caller *policy.Identity, req dto.ReviewCreateRequest) (*models.Review, error) {
	if err := policy.Evaluate(caller, policy.ActionCreate, policy.Class(policy.KindReview)); err != nil {
		return nil, err
	}
	if caller.ProfileID == 0 {
		return nil, ErrForbidden
	}

	anime, err := s.animeRepo.GetByTitle(ctx, req.Anime)
	if err != nil {
		if isNotFound(err) {
			return nil, NewValidationError("anime", doesNotExist(req.Anime))
		}
		return nil, fmt.Errorf("resolve anime: %w", err)
	}

	exists, err := s.reviewRepo.Exists(ctx, caller.ProfileID, anime.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewValidationError(NonFieldErrors, msgAlreadyReviewed)
	}

	review := &models.Review{
		ProfileID: caller.ProfileID,
		AnimeID:   anime.ID,
	}
	req.ApplyTo(review)

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// the unique index still catches a concurrent duplicate
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, NewValidationError(NonFieldErrors, msgAlreadyReviewed)
		}
		return nil, err
	}
	return s.Get(ctx, review.ID)
}

func (s *reviewService) Update(ctx context.Context, caller *policy.Identity, id int64, req dto.ReviewUpdateRequest) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "get review")
	}
	if err := policy.Evaluate(caller, policy.ActionUpdate, policy.Owned(policy.KindReview, review.ProfileID)); err != nil {
		return nil, err
	}

	req.ApplyTo(review)
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *reviewService) Delete(ctx context.Context, caller *policy.Identity, id int64) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "get review")
	}
	if err := policy.Evaluate(caller, policy.ActionDelete, policy.Owned(policy.KindReview, review.ProfileID)); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return notFound(err, "delete review")
	}
	return nil
}
