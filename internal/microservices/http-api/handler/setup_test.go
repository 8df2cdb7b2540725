package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"aniverse/internal/microservices/http-api/handler"
	"aniverse/internal/microservices/http-api/models"
	"aniverse/internal/microservices/http-api/policy"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	member    = &policy.Identity{UserID: "user-1", ProfileID: 1}
	moderator = &policy.Identity{UserID: "user-2", ProfileID: 2, Roles: []string{models.RoleModerator}}
)

const (
	memberToken    = "member-token"
	moderatorToken = "moderator-token"
)

type mocks struct {
	auth          *MockAuthService
	anime         *MockAnimeService
	genres        *MockGenreService
	studios       *MockStudioService
	ratings       *MockRatingService
	collections   *MockCollectionService
	comments      *MockCommentService
	reviews       *MockReviewService
	notifications *MockNotificationService
}

// --- SETUP ---

func setupRouter(t *testing.T, health func(ctx context.Context) error) (*gin.Engine, *mocks) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := &mocks{
		auth:          new(MockAuthService),
		anime:         new(MockAnimeService),
		genres:        new(MockGenreService),
		studios:       new(MockStudioService),
		ratings:       new(MockRatingService),
		collections:   new(MockCollectionService),
		comments:      new(MockCommentService),
		reviews:       new(MockReviewService),
		notifications: new(MockNotificationService),
	}
	m.auth.On("ParseAccessToken", memberToken).Return(member, nil).Maybe()
	m.auth.On("ParseAccessToken", moderatorToken).Return(moderator, nil).Maybe()
	m.auth.On("ParseAccessToken", mock.Anything).Return(nil, errors.New("invalid token")).Maybe()

	router := handler.NewRouter(handler.Services{
		Auth:         m.auth,
		Anime:        m.anime,
		Genres:       m.genres,
		Studios:      m.studios,
		Ratings:      m.ratings,
		Collections:  m.collections,
		Comments:     m.comments,
		Reviews:      m.reviews,
		Notification: m.notifications,
	}, handler.RouterOptions{HealthCheck: health})

	t.Cleanup(func() {
		m.anime.AssertExpectations(t)
		m.genres.AssertExpectations(t)
		m.studios.AssertExpectations(t)
		m.ratings.AssertExpectations(t)
		m.collections.AssertExpectations(t)
		m.comments.AssertExpectations(t)
		m.reviews.AssertExpectations(t)
		m.notifications.AssertExpectations(t)
	})
	return router, m
}

// doRequest sends body as-is when it is a string, JSON-encoded otherwise.
func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, handler.APIPrefix+path, reader)
	require.NoError(t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
