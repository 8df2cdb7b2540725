package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"aniverse/internal/microservices/http-api/dto"
	"aniverse/internal/microservices/http-api/models"
	"aniverse/internal/microservices/http-api/policy"
	"aniverse/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	moderator = &policy.Identity{UserID: "mod", ProfileID: 1, Roles: []string{models.RoleModerator}}
	member    = &policy.Identity{UserID: "member", ProfileID: 2}
	stranger  = &policy.Identity{UserID: "stranger", ProfileID: 3}
)

func animeRequest() dto.AnimeRequest {
	return dto.AnimeRequest{
		Title:         "Mushishi",
		Description:   strings.Repeat("d", 120),
		Type:          "TV",
		Episodes:      26,
		ReadyEpisodes: 26,
		Status:        "finished",
		AgeRating:     "PG-13",
		Year:          2005,
		Studio:        "Artland",
		Genres:        []string{"Mystery", "Slice of Life"},
	}
}

func newAnimeServiceWithMocks() (AnimeService, *MockAnimeRepository, *MockGenreRepository, *MockStudioRepository) {
	animeRepo := new(MockAnimeRepository)
	genreRepo := new(MockGenreRepository)
	studioRepo := new(MockStudioRepository)
	return NewAnimeService(animeRepo, genreRepo, studioRepo), animeRepo, genreRepo, studioRepo
}

func TestAnimeService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("PassesFilterThrough", func(t *testing.T) {
		svc, animeRepo, _, _ := newAnimeServiceWithMocks()
		filter := repository.AnimeFilter{Status: "ongoing", Genres: []string{"Drama"}}
		animeRepo.On("List", ctx, filter, 1, dto.PageSize).Return([]models.Anime{{ID: 1}}, int64(1), nil)

		items, total, err := svc.List(ctx, filter, 1)

		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, int64(1), total)
		animeRepo.AssertExpectations(t)
	})

	t.Run("EmptyFirstPageIsValid", func(t *testing.T) {
		svc, animeRepo, _, _ := newAnimeServiceWithMocks()
		animeRepo.On("List", ctx, mock.Anything, 1, dto.PageSize).Return([]models.Anime{}, int64(0), nil)

		_, total, err := svc.List(ctx, repository.AnimeFilter{Unsatisfiable: true}, 1)

		assert.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("PageOutOfRange", func(t *testing.T) {
		svc, animeRepo, _, _ := newAnimeServiceWithMocks()
		animeRepo.On("List", ctx, mock.Anything, 3, dto.PageSize).Return([]models.Anime{}, int64(15), nil)

		_, _, err := svc.List(ctx, repository.AnimeFilter{}, 3)

		assert.ErrorIs(t, err, ErrInvalidPage)
	})

	t.Run("NonPositivePageSkipsQuery", func(t *testing.T) {
		svc, animeRepo, _, _ := newAnimeServiceWithMocks()

		_, _, err := svc.List(ctx, repository.AnimeFilter{}, 0)

		assert.ErrorIs(t, err, ErrInvalidPage)
		animeRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAnimeService_Get_NotFound(t *testing.T) {
	svc, animeRepo, _, _ := newAnimeServiceWithMocks()
	animeRepo.On("GetByID", mock.Anything, int64(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 9)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnimeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, animeRepo, genreRepo, studioRepo := newAnimeServiceWithMocks()
		req := animeRequest()
		genres := []models.Genre{{ID: 1, Title: "Mystery"}, {ID: 2, Title: "Slice of Life"}}

		animeRepo.On("GetByTitle", ctx, "Mushishi").Return(nil, gorm.ErrRecordNotFound)
		studioRepo.On("GetByTitle", ctx, "Artland").Return(&models.Studio{ID: 4, Title: "Artland"}, nil)
		genreRepo.On("FindByTitles", ctx, req.Genres).Return(genres, nil)
		animeRepo.On("Create", ctx, mock.MatchedBy(func(a *models.Anime) bool {
			return a.Title == "Mushishi" && a.StudioID == 4 && len(a.Genres) == 2 && a.Episodes == 26
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Anime).ID = 10
		}).Return(nil)
		animeRepo.On("GetByID", ctx, int64(10)).Return(&models.Anime{ID: 10, Title: "Mushishi"}, nil)

		anime, err := svc.Create(ctx, moderator, req)

		require.NoError(t, err)
		assert.Equal(t, int64(10), anime.ID)
		animeRepo.AssertExpectations(t)
	})

	t.Run("Anonymous", func(t *testing.T) {
		svc, animeRepo, _, _ := newAnimeServiceWithMocks()

		_, err := svc.Create(ctx, nil, animeRequest())

		assert.ErrorIs(t, err, ErrUnauthenticated)
		animeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("PlainMemberForbidden", func(t *testing.T) {
		svc, _, _, _ := newAnimeServiceWithMocks()

		_, err := svc.Create(ctx, member, animeRequest())

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("UnresolvedReferencesReportedPerField", func(t *testing.T) {
		svc, animeRepo, genreRepo, studioRepo := newAnimeServiceWithMocks()
		req := animeRequest()

		animeRepo.On("GetByTitle", ctx, "Mushishi").Return(&models.Anime{ID: 99, Title: "Mushishi"}, nil)
		studioRepo.On("GetByTitle", ctx, "Artland").Return(nil, gorm.ErrRecordNotFound)
		genreRepo.On("FindByTitles", ctx, req.Genres).Return([]models.Genre{{ID: 1, Title: "Mystery"}}, nil)

		_, err := svc.Create(ctx, moderator, req)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"anime with this title already exists."}, verr.Fields["title"])
		assert.Equal(t, []string{"Object with title=Artland does not exist."}, verr.Fields["studio"])
		assert.Equal(t, []string{"Object with title=Slice of Life does not exist."}, verr.Fields["genres"])
		animeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("DuplicateFromDatabase", func(t *testing.T) {
		svc, animeRepo, genreRepo, studioRepo := newAnimeServiceWithMocks()
		req := animeRequest()

		animeRepo.On("GetByTitle", ctx, "Mushishi").Return(nil, gorm.ErrRecordNotFound)
		studioRepo.On("GetByTitle", ctx, "Artland").Return(&models.Studio{ID: 4}, nil)
		genreRepo.On("FindByTitles", ctx, req.Genres).Return([]models.Genre{{Title: "Mystery"}, {Title: "Slice of Life"}}, nil)
		animeRepo.On("Create", ctx, mock.Anything).Return(&repository.DuplicateKeyError{Constraint: "idx_anime_title"})

		_, err := svc.Create(ctx, moderator, req)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "title")
	})
}

func TestAnimeService_Update_KeepsOwnTitle(t *testing.T) {
	ctx := context.Background()
	svc, animeRepo, genreRepo, studioRepo := newAnimeServiceWithMocks()
	req := animeRequest()
	existing := &models.Anime{ID: 5, Title: "Mushishi"}

	animeRepo.On("GetByID", ctx, int64(5)).Return(existing, nil)
	animeRepo.On("GetByTitle", ctx, "Mushishi").Return(&models.Anime{ID: 5, Title: "Mushishi"}, nil)
	studioRepo.On("GetByTitle", ctx, "Artland").Return(&models.Studio{ID: 4, Title: "Artland"}, nil)
	genreRepo.On("FindByTitles", ctx, req.Genres).Return([]models.Genre{{Title: "Mystery"}, {Title: "Slice of Life"}}, nil)
	animeRepo.On("Update", ctx, existing).Return(nil)

	_, err := svc.Update(ctx, moderator, 5, req)

	require.NoError(t, err)
	animeRepo.AssertCalled(t, "Update", ctx, existing)
}

func TestAnimeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing", func(t *testing.T) {
		svc, animeRepo, _, _ := newAnimeServiceWithMocks()
		animeRepo.On("Delete", ctx, int64(3)).Return(gorm.ErrRecordNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, moderator, 3), ErrNotFound)
	})

	t.Run("Forbidden", func(t *testing.T) {
		svc, animeRepo, _, _ := newAnimeServiceWithMocks()

		assert.ErrorIs(t, svc.Delete(ctx, member, 3), ErrForbidden)
		animeRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestGenreService(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateDuplicateTitle", func(t *testing.T) {
		repo := new(MockGenreRepository)
		repo.On("Create", ctx, mock.Anything).Return(&repository.DuplicateKeyError{Constraint: "idx_genres_title"})

		_, err := NewGenreService(repo).Create(ctx, moderator, dto.GenreRequest{Title: "Drama"})

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"genre with this title already exists."}, verr.Fields["title"])
	})

	t.Run("DeleteRequiresStaff", func(t *testing.T) {
		repo := new(MockGenreRepository)

		err := NewGenreService(repo).Delete(ctx, nil, 1)

		assert.ErrorIs(t, err, ErrUnauthenticated)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("DeleteDelegatesToRepository", func(t *testing.T) {
		repo := new(MockGenreRepository)
		repo.On("Delete", ctx, int64(1)).Return(nil)

		assert.NoError(t, NewGenreService(repo).Delete(ctx, moderator, 1))
		repo.AssertExpectations(t)
	})
}

func TestStudioService(t *testing.T) {
	ctx := context.Background()

	t.Run("UpdateMissing", func(t *testing.T) {
		repo := new(MockStudioRepository)
		repo.On("GetByID", ctx, int64(8)).Return(nil, gorm.ErrRecordNotFound)

		_, err := NewStudioService(repo).Update(ctx, moderator, 8, dto.StudioRequest{Title: "Bones"})

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ListSecondPage", func(t *testing.T) {
		repo := new(MockStudioRepository)
		repo.On("List", ctx, 2, dto.PageSize).Return([]models.Studio{{ID: 11}}, int64(11), nil)

		items, total, err := NewStudioService(repo).List(ctx, 2)

		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, int64(11), total)
	})
}
