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

type AnimeService interface {
	List(ctx context.Context, filter repository.AnimeFilter, page int) ([]models.Anime, int64, error)
	Get(ctx context.Context, id int64) (*models.Anime, error)
	Create(ctx context.Context, caller *policy.Identity, req dto.AnimeRequest) (*models.Anime, error)
	Update(ctx context.Context, caller *policy.Identity, id int64, req dto.AnimeRequest) (*models.Anime, error)
	Delete(ctx context.Context, caller *policy.Identity, id int64) error
}

type animeService struct {
	animeRepo  repository.AnimeRepository
	genreRepo  repository.GenreRepository
	studioRepo repository.StudioRepository
}

func NewAnimeService(
	animeRepo repository.AnimeRepository,
	genreRepo repository.GenreRepository,
	studioRepo repository.StudioRepository,
) AnimeService {
	return &animeService{
		animeRepo:  animeRepo,
		genreRepo:  genreRepo,
		studioRepo: studioRepo,
	}
}

// List returns one page of anime matching every supplied filter, ordered by id.
func (s *animeService) List(ctx context.Context, filter repository.AnimeFilter, page int) ([]models.Anime, int64, error) {
	if page < 1 {
		return nil, 0, ErrInvalidPage
	}
	items, total, err := s.animeRepo.List(ctx, filter, page, dto.PageSize)
	if err != nil {
		return nil, 0, err
	}
	if err := checkPage(page, total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *animeService) Get(ctx context.Context, id int64) (*models.Anime, error) {
	anime, err := s.animeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "get anime")
	}
	return anime, nil
}

func (s *animeService) Create(ctx context.Context, caller *policy.Identity, req dto.AnimeRequest) (*models.Anime, error) {
	if err := policy.Evaluate(caller, policy.ActionCreate, policy.Class(policy.KindAnime)); err != nil {
		return nil, err
	}

	anime := &models.Anime{}
	if err := s.resolve(ctx, anime, req); err != nil {
		return nil, err
	}

	if err := s.animeRepo.Create(ctx, anime); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, NewValidationError("title", "anime with this title already exists.")
		}
		return nil, err
	}
	return s.Get(ctx, anime.ID)
}

func (s *animeService) Update(ctx context.Context, caller *policy.Identity, id int64, req dto.AnimeRequest) (*models.Anime, error) {
	if err := policy.Evaluate(caller, policy.ActionUpdate, policy.Class(policy.KindAnime)); err != nil {
		return nil, err
	}

	anime, err := s.animeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "get anime")
	}
	if err := s.resolve(ctx, anime, req); err != nil {
		return nil, err
	}

	if err := s.animeRepo.Update(ctx, anime); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, NewValidationError("title", "anime with this title already exists.")
		}
		return nil, err
	}
	return s.Get(ctx, anime.ID)
}

// Delete removes the anime; ratings, comments, reviews and collection entries go with it.
func (s *animeService) Delete(ctx context.Context, caller *policy.Identity, id int64) error {
	if err := policy.Evaluate(caller, policy.ActionDelete, policy.Class(policy.KindAnime)); err != nil {
		return err
	}
	if err := s.animeRepo.Delete(ctx, id); err != nil {
		return notFound(err, "delete anime")
	}
	return nil
}

// resolve copies req into anime, looking up studio and genres by title.
// Every unresolved reference and a taken title are reported together.
func (s *animeService) resolve(ctx context.Context, anime *models.Anime, req dto.AnimeRequest) error {
	verr := &ValidationError{}

	if existing, err := s.animeRepo.GetByTitle(ctx, req.Title); err == nil {
		if existing.ID != anime.ID {
			verr.Add("title", "anime with this title already exists.")
		}
	} else if !isNotFound(err) {
		return fmt.Errorf("check anime title: %w", err)
	}

	studio, err := s.studioRepo.GetByTitle(ctx, req.Studio)
	switch {
	case err == nil:
	case isNotFound(err):
		verr.Add("studio", doesNotExist(req.Studio))
	default:
		return fmt.Errorf("resolve studio: %w", err)
	}

	genres, err := s.genreRepo.FindByTitles(ctx, req.Genres)
	if err != nil {
		return fmt.Errorf("resolve genres: %w", err)
	}
	known := make(map[string]bool, len(genres))
	for _, g := range genres {
		known[g.Title] = true
	}
	for _, title := range req.Genres {
		if !known[title] {
			verr.Add("genres", doesNotExist(title))
		}
	}

	if err := verr.OrNil(); err != nil {
		return err
	}

	req.ApplyTo(anime)
	anime.StudioID = studio.ID
	anime.Studio = *studio
	anime.Genres = genres
	return nil
}
