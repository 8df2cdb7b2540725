package service

import (
	"context"
	"errors"

	"aniverse/internal/microservices/http-api/dto"
	"aniverse/internal/microservices/http-api/models"
	"aniverse/internal/microservices/http-api/policy"
	"aniverse/internal/microservices/http-api/repository"
)

type GenreService interface {
	List(ctx context.Context, page int) ([]models.Genre, int64, error)
	Get(ctx context.Context, id int64) (*models.Genre, error)
	Create(ctx context.Context, caller *policy.Identity, req dto.GenreRequest) (*models.Genre, error)
	Update(ctx context.Context, caller *policy.Identity, id int64, req dto.GenreRequest) (*models.Genre, error)
	// Delete removes the genre together with every anime tagged with it.
	Delete(ctx context.Context, caller *policy.Identity, id int64) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) List(ctx context.Context, page int) ([]models.Genre, int64, error) {
	if page < 1 {
		return nil, 0, ErrInvalidPage
	}
	items, total, err := s.repo.List(ctx, page, dto.PageSize)
	if err != nil {
		return nil, 0, err
	}
	if err := checkPage(page, total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *genreService) Get(ctx context.Context, id int64) (*models.Genre, error) {
	genre, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "get genre")
	}
	return genre, nil
}

func (s *genreService) Create(ctx context.Context, caller *policy.Identity, req dto.GenreRequest) (*models.Genre, error) {
	if err := policy.Evaluate(caller, policy.ActionCreate, policy.Class(policy.KindGenre)); err != nil {
		return nil, err
	}
	genre := &models.Genre{Title: req.Title}
	if err := s.repo.Create(ctx, genre); err != nil {
		return nil, titleTaken(err, "genre")
	}
	return genre, nil
}

func (s *genreService) Update(ctx context.Context, caller *policy.Identity, id int64, req dto.GenreRequest) (*models.Genre, error) {
	if err := policy.Evaluate(caller, policy.ActionUpdate, policy.Class(policy.KindGenre)); err != nil {
		return nil, err
	}
	genre, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "get genre")
	}
	genre.Title = req.Title
	if err := s.repo.Update(ctx, genre); err != nil {
		return nil, titleTaken(err, "genre")
	}
	return genre, nil
}

func (s *genreService) Delete(ctx context.Context, caller *policy.Identity, id int64) error {
	if err := policy.Evaluate(caller, policy.ActionDelete, policy.Class(policy.KindGenre)); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "delete genre")
	}
	return nil
}

type StudioService interface {
	List(ctx context.Context, page int) ([]models.Studio, int64, error)
	Get(ctx context.Context, id int64) (*models.Studio, error)
	Create(ctx context.Context, caller *policy.Identity, req dto.StudioRequest) (*models.Studio, error)
	Update(ctx context.Context, caller *policy.Identity, id int64, req dto.StudioRequest) (*models.Studio, error)
	// Delete removes the studio; its anime are removed by the foreign key cascade.
	Delete(ctx context.Context, caller *policy.Identity, id int64) error
}

type studioService struct {
	repo repository.StudioRepository
}

func NewStudioService(repo repository.StudioRepository) StudioService {
	return &studioService{repo: repo}
}

func (s *studioService) List(ctx context.Context, page int) ([]models.Studio, int64, error) {
	if page < 1 {
		return nil, 0, ErrInvalidPage
	}
	items, total, err := s.repo.List(ctx, page, dto.PageSize)
	if err != nil {
		return nil, 0, err
	}
	if err := checkPage(page, total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *studioService) Get(ctx context.Context, id int64) (*models.Studio, error) {
	studio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "get studio")
	}
	return studio, nil
}

func (s *studioService) Create(ctx context.Context, caller *policy.Identity, req dto.StudioRequest) (*models.Studio, error) {
	if err := policy.Evaluate(caller, policy.ActionCreate, policy.Class(policy.KindStudio)); err != nil {
		return nil, err
	}
	studio := &models.Studio{Title: req.Title}
	if err := s.repo.Create(ctx, studio); err != nil {
		return nil, titleTaken(err, "studio")
	}
	return studio, nil
}

func (s *studioService) Update(ctx context.Context, caller *policy.Identity, id int64, req dto.StudioRequest) (*models.Studio, error) {
	if err := policy.Evaluate(caller, policy.ActionUpdate, policy.Class(policy.KindStudio)); err != nil {
		return nil, err
	}
	studio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "get studio")
	}
	studio.Title = req.Title
	if err := s.repo.Update(ctx, studio); err != nil {
		return nil, titleTaken(err, "studio")
	}
	return studio, nil
}

func (s *studioService) Delete(ctx context.Context, caller *policy.Identity, id int64) error {
	if err := policy.Evaluate(caller, policy.ActionDelete, policy.Class(policy.KindStudio)); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "delete studio")
	}
	return nil
}

// titleTaken turns a unique violation on a named entity into a title field error.
func titleTaken(err error, entity string) error {
	if errors.Is(err, repository.ErrDuplicateKey) {
		return NewValidationError("title", entity+" with this title already exists.")
	}
	return err
}
