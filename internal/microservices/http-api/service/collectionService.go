package service

import (
	"context"
	"fmt"

	"aniverse/internal/microservices/http-api/dto"
	"aniverse/internal/microservices/http-api/models"
	"aniverse/internal/microservices/http-api/policy"
	"aniverse/internal/microservices/http-api/repository"
)

type CollectionService interface {
	// List returns only the caller's own collections.
	List(ctx context.Context, caller *policy.Identity, page int) ([]models.Collection, int64, error)
	Get(ctx context.Context, caller *policy.Identity, id int64) (*models.Collection, error)
	Create(ctx context.Context, caller *policy.Identity, req dto.CollectionRequest) (*models.Collection, error)
	Update(ctx context.Context, caller *policy.Identity, id int64, req dto.CollectionRequest) (*models.Collection, error)
	Delete(ctx context.Context, caller *policy.Identity, id int64) error
}

type collectionService struct {
	collectionRepo repository.CollectionRepository
	animeRepo      repository.AnimeRepository
}

func NewCollectionService(collectionRepo repository.CollectionRepository, animeRepo repository.AnimeRepository) CollectionService {
	return &collectionService{
		collectionRepo: collectionRepo,
		animeRepo:      animeRepo,
	}
}

func (s *collectionService) List(ctx context.Context, caller *policy.Identity, page int) ([]models.Collection, int64, error) {
	if err := policy.Evaluate(caller, policy.ActionList, policy.Class(policy.KindCollection)); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		return nil, 0, ErrInvalidPage
	}

	items, total, err := s.collectionRepo.ListByProfile(ctx, caller.ProfileID, page, dto.PageSize)
	if err != nil {
		return nil, 0, err
	}
	if err := checkPage(page, total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *collectionService) Get(ctx context.Context, caller *policy.Identity, id int64) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "get collection")
	}
	if err := policy.Evaluate(caller, policy.ActionRead, policy.Owned(policy.KindCollection, collection.ProfileID)); err != nil {
		return nil, err
	}
	return collection, nil
}

func (s *collectionService) Create(ctx context.Context, caller *policy.Identity, req dto.CollectionRequest) (*models.Collection, error) {
	if err := policy.Evaluate(caller, policy.ActionCreate, policy.Class(policy.KindCollection)); err != nil {
		return nil, err
	}
	if caller.ProfileID == 0 {
		return nil, ErrForbidden
	}

	animes, err := s.resolveAnime(ctx, req.Anime)
	if err != nil {
		return nil, err
	}

	collection := &models.Collection{
		Title:     req.Title,
		ProfileID: caller.ProfileID,
		Animes:    animes,
	}
	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return nil, err
	}
	return s.reload(ctx, collection.ID)
}

func (s *collectionService) Update(ctx context.Context, caller *policy.Identity, id int64, req dto.CollectionRequest) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "get collection")
	}
	if err := policy.Evaluate(caller, policy.ActionUpdate, policy.Owned(policy.KindCollection, collection.ProfileID)); err != nil {
		return nil, err
	}

	animes, err := s.resolveAnime(ctx, req.Anime)
	if err != nil {
		return nil, err
	}

	collection.Title = req.Title
	collection.Animes = animes
	if err := s.collectionRepo.Update(ctx, collection); err != nil {
		return nil, err
	}
	return s.reload(ctx, collection.ID)
}

func (s *collectionService) Delete(ctx context.Context, caller *policy.Identity, id int64) error {
	collection, err := s.collectionRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "get collection")
	}
	if err := policy.Evaluate(caller, policy.ActionDelete, policy.Owned(policy.KindCollection, collection.ProfileID)); err != nil {
		return err
	}
	if err := s.collectionRepo.Delete(ctx, id); err != nil {
		return notFound(err, "delete collection")
	}
	return nil
}

// resolveAnime looks up titles; duplicates collapse into one membership.
func (s *collectionService) resolveAnime(ctx context.Context, titles []string) ([]models.Anime, error) {
	if len(titles) == 0 {
		return []models.Anime{}, nil
	}

	found, err := s.animeRepo.FindByTitles(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("resolve anime: %w", err)
	}
	known := make(map[string]bool, len(found))
	for _, a := range found {
		known[a.Title] = true
	}

	verr := &ValidationError{}
	for _, title := range titles {
		if !known[title] {
			verr.Add("anime", doesNotExist(title))
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *collectionService) reload(ctx context.Context, id int64) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "reload collection")
	}
	return collection, nil
}
