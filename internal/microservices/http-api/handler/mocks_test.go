package handler_test

import (
	"context"

	"aniverse/internal/microservices/http-api/dto"
	"aniverse/internal/microservices/http-api/models"
	"aniverse/internal/microservices/http-api/policy"
	"aniverse/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICES ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenPair, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenPair), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenPair, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenPair), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenPair), args.Error(1)
}

func (m *MockAuthService) ParseAccessToken(tokenString string) (*policy.Identity, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*policy.Identity), args.Error(1)
}

type MockAnimeService struct {
	mock.Mock
}

func (m *MockAnimeService) List(ctx context.Context, filter repository.AnimeFilter, page int) ([]models.Anime, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]models.Anime), args.Get(1).(int64), args.Error(2)
}

func (m *MockAnimeService) Get(ctx context.Context, id int64) (*models.Anime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Anime), args.Error(1)
}

func (m *MockAnimeService) Create(ctx context.Context, caller *policy.Identity, req dto.AnimeRequest) (*models.Anime, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Anime), args.Error(1)
}

func (m *MockAnimeService) Update(ctx context.Context, caller *policy.Identity, id int64, req dto.AnimeRequest) (*models.Anime, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Anime), args.Error(1)
}

func (m *MockAnimeService) Delete(ctx context.Context, caller *policy.Identity, id int64) error {
	return m.Called(ctx, caller, id).Error(0)
}

type MockGenreService struct {
	mock.Mock
}

func (m *MockGenreService) List(ctx context.Context, page int) ([]models.Genre, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]models.Genre), args.Get(1).(int64), args.Error(2)
}

func (m *MockGenreService) Get(ctx context.Context, id int64) (*models.Genre, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreService) Create(ctx context.Context, caller *policy.Identity, req dto.GenreRequest) (*models.Genre, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreService) Update(ctx context.Context, caller *policy.Identity, id int64, req dto.GenreRequest) (*models.Genre, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreService) Delete(ctx context.Context, caller *policy.Identity, id int64) error {
	return m.Called(ctx, caller, id).Error(0)
}

type MockStudioService struct {
	mock.Mock
}

func (m *MockStudioService) List(ctx context.Context, page int) ([]models.Studio, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]models.Studio), args.Get(1).(int64), args.Error(2)
}

func (m *MockStudioService) Get(ctx context.Context, id int64) (*models.Studio, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Studio), args.Error(1)
}

func (m *MockStudioService) Create(ctx context.Context, caller *policy.Identity, req dto.StudioRequest) (*models.Studio, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Studio), args.Error(1)
}

func (m *MockStudioService) Update(ctx context.Context, caller *policy.Identity, id int64, req dto.StudioRequest) (*models.Studio, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Studio), args.Error(1)
}

func (m *MockStudioService) Delete(ctx context.Context, caller *policy.Identity, id int64) error {
	return m.Called(ctx, caller, id).Error(0)
}

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) Create(ctx context.Context, caller *policy.Identity, req dto.RatingCreateRequest) (*models.Rating, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingService) Update(ctx context.Context, caller *policy.Identity, id int64, req dto.RatingUpdateRequest) (*models.Rating, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingService) Delete(ctx context.Context, caller *policy.Identity, id int64) error {
	return m.Called(ctx, caller, id).Error(0)
}

func (m *MockRatingService) AverageRating(ctx context.Context, animeID int64) (dto.AverageRating, error) {
	args := m.Called(ctx, animeID)
	return args.Get(0).(dto.AverageRating), args.Error(1)
}

func (m *MockRatingService) Distribution(ctx context.Context, animeID int64) (dto.RatingDistribution, error) {
	args := m.Called(ctx, animeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(dto.RatingDistribution), args.Error(1)
}

type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) List(ctx context.Context, caller *policy.Identity, page int) ([]models.Collection, int64, error) {
	args := m.Called(ctx, caller, page)
	return args.Get(0).([]models.Collection), args.Get(1).(int64), args.Error(2)
}

func (m *MockCollectionService) Get(ctx context.Context, caller *policy.Identity, id int64) (*models.Collection, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) Create(ctx context.Context, caller *policy.Identity, req dto.CollectionRequest) (*models.Collection, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) Update(ctx context.Context, caller *policy.Identity, id int64, req dto.CollectionRequest) (*models.Collection, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) Delete(ctx context.Context, caller *policy.Identity, id int64) error {
	return m.Called(ctx, caller, id).Error(0)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) List(ctx context.Context, animeTitle string, page int) ([]models.Comment, int64, error) {
	args := m.Called(ctx, animeTitle, page)
	return args.Get(0).([]models.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentService) Get(ctx context.Context, id int64) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) Replies(ctx context.Context, id int64, page int) ([]models.Comment, int64, error) {
	args := m.Called(ctx, id, page)
	return args.Get(0).([]models.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentService) Create(ctx context.Context, caller *policy.Identity, req dto.CommentCreateRequest) (*models.Comment, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) Update(ctx context.Context, caller *policy.Identity, id int64, req dto.CommentUpdateRequest) (*models.Comment, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, caller *policy.Identity, id int64) error {
	return m.Called(ctx, caller, id).Error(0)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(ctx context.Context, animeTitle string, page int) ([]models.Review, int64, error) {
	args := m.Called(ctx, animeTitle, page)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewService) Get(ctx context.Context, id int64) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, caller *policy.Identity, req dto.ReviewCreateRequest) (*models.Review, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, caller *policy.Identity, id int64, req dto.ReviewUpdateRequest) (*models.Review, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, caller *policy.Identity, id int64) error {
	return m.Called(ctx, caller, id).Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetUnread(ctx context.Context, caller *policy.Identity) ([]models.Notification, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, caller *policy.Identity, notificationID int64) error {
	return m.Called(ctx, caller, notificationID).Error(0)
}
