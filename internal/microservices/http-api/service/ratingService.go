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

const msgAlreadyRated = "You have already rated this anime."

type RatingService interface {
	Create(ctx context.Context, caller *policy.Identity, req dto.RatingCreateRequest) (*models.Rating, error)
	Update(ctx context.Context, caller *policy.Identity, id int64, req dto.RatingUpdateRequest) (*models.Rating, error)
	Delete(ctx context.Context, caller *policy.Identity, id int64) error
	// AverageRating returns ErrNoRating when the anime has not been rated yet.
	AverageRating(ctx context.Context, animeID int64) (dto.AverageRating, error)
	Distribution(ctx context.Context, animeID int64) (dto.RatingDistribution, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	animeRepo  repository.AnimeRepository
}

func NewRatingService(ratingRepo repository.RatingRepository, animeRepo repository.AnimeRepository) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		animeRepo:  animeRepo,
	}
}

// Create records the caller's rating; a profile rates each anime at most once.
func (s *ratingService) Create(ctx context.Context, caller *policy.Identity, req dto.RatingCreateRequest) (*models.Rating, error) {
	if err := policy.Evaluate(caller, policy.ActionCreate, policy.Class(policy.KindRating)); err != nil {
		return nil, err
	}
	if caller.ProfileID == 0 {
		return nil, ErrForbidden
	}

	anime, err := s.animeRepo.GetByTitle(ctx, req.ForAnime)
	if err != nil {
		if isNotFound(err) {
			return nil, NewValidationError("for_anime", doesNotExist(req.ForAnime))
		}
		return nil, fmt.Errorf("resolve anime: %w", err)
	}

	_, err = s.ratingRepo.GetByProfileAndAnime(ctx, caller.ProfileID, anime.ID)
	if err == nil {
		return nil, NewValidationError(NonFieldErrors, msgAlreadyRated)
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("check existing rating: %w", err)
	}

	rating := &models.Rating{
		ProfileID: caller.ProfileID,
		AnimeID:   anime.ID,
		Rate:      req.Rate,
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		// lost a race with a concurrent create
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, NewValidationError(NonFieldErrors, msgAlreadyRated)
		}
		return nil, err
	}

	return s.reload(ctx, rating.ID)
}

func (s *ratingService) Update(ctx context.Context, caller *policy.Identity, id int64, req dto.RatingUpdateRequest) (*models.Rating, error) {
	rating, err := s.ratingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "get rating")
	}
	if err := policy.Evaluate(caller, policy.ActionUpdate, policy.Owned(policy.KindRating, rating.ProfileID)); err != nil {
		return nil, err
	}

	rating.Rate = req.Rate
	if err := s.ratingRepo.Update(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

func (s *ratingService) Delete(ctx context.Context, caller *policy.Identity, id int64) error {
	rating, err := s.ratingRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "get rating")
	}
	if err := policy.Evaluate(caller, policy.ActionDelete, policy.Owned(policy.KindRating, rating.ProfileID)); err != nil {
		return err
	}
	if err := s.ratingRepo.Delete(ctx, id); err != nil {
		return notFound(err, "delete rating")
	}
	return nil
}

func (s *ratingService) AverageRating(ctx context.Context, animeID int64) (dto.AverageRating, error) {
	if _, err := s.animeRepo.GetByID(ctx, animeID); err != nil {
		return dto.AverageRating{}, notFound(err, "get anime")
	}

	avg, count, err := s.ratingRepo.Average(ctx, animeID)
	if err != nil {
		return dto.AverageRating{}, err
	}
	// no ratings is a distinct outcome, not an average of zero
	if count == 0 {
		return dto.AverageRating{}, ErrNoRating
	}
	return dto.NewAverageRating(avg), nil
}

func (s *ratingService) Distribution(ctx context.Context, animeID int64) (dto.RatingDistribution, error) {
	if _, err := s.animeRepo.GetByID(ctx, animeID); err != nil {
		return nil, notFound(err, "get anime")
	}

	buckets, err := s.ratingRepo.Distribution(ctx, animeID)
	if err != nil {
		return nil, err
	}
	dist := make(dto.RatingDistribution, 0, len(buckets))
	for _, b := range buckets {
		dist = append(dist, dto.RateCount{Rate: b.Rate, Count: b.Count})
	}
	return dist, nil
}

func (s *ratingService) reload(ctx context.Context, id int64) (*models.Rating, error) {
	rating, err := s.ratingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "reload rating")
	}
	return rating, nil
}
