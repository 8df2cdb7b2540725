package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"aniverse/internal/config"
	"aniverse/internal/microservices/http-api/dto"
	"aniverse/internal/microservices/http-api/models"
	"aniverse/internal/microservices/http-api/policy"
	"aniverse/internal/microservices/http-api/repository"
	"aniverse/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenTypeAccess = "access"

// dummyHash is compared against when the username is unknown so login timing
// stays flat. It is a real hash at the same cost as stored passwords.
var dummyHash = sync.OnceValue(func() string {
	hash, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		panic(fmt.Sprintf("hash login placeholder: %v", err))
	}
	return hash
})

type AuthService interface {
	// Register creates the user and its profile atomically and signs them in.
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenPair, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenPair, error)
	// Refresh rotates a refresh token: the old one is revoked and a new pair issued.
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error)
	// ParseAccessToken validates a bearer token and returns the caller it names.
	ParseAccessToken(tokenString string) (*policy.Identity, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	now              func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
		now:              time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenPair, error) {
	birthDate, err := time.Parse(time.DateOnly, req.BirthDate)
	if err != nil {
		return nil, NewValidationError("birth_date", "Date has wrong format. Use YYYY-MM-DD.")
	}

	if err := s.checkRegistrationUnique(ctx, req); err != nil {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
	}
	profile := &models.Profile{
		Nickname:  req.Nickname,
		Sex:       req.Sex,
		BirthDate: birthDate,
		Bio:       req.Bio,
		Avatar:    req.Avatar,
	}

	// neither row exists unless both are written
	if err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		var dup *repository.DuplicateKeyError
		if errors.As(err, &dup) {
			return nil, duplicateRegistration(dup.Constraint)
		}
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) checkRegistrationUnique(ctx context.Context, req dto.RegisterRequest) error {
	verr := &ValidationError{}

	taken, err := s.userRepo.UsernameTaken(ctx, req.Username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if taken {
		verr.Add("username", "A user with that username already exists.")
	}

	taken, err = s.userRepo.EmailTaken(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		verr.Add("email", "user with this email already exists.")
	}

	taken, err = s.userRepo.NicknameTaken(ctx, req.Nickname)
	if err != nil {
		return fmt.Errorf("check nickname: %w", err)
	}
	if taken {
		verr.Add("nickname", "profile with this nickname already exists.")
	}

	return verr.OrNil()
}

// duplicateRegistration names the field behind a unique violation that slipped past the pre-check.
func duplicateRegistration(constraint string) error {
	switch {
	case strings.Contains(constraint, "nickname"):
		return NewValidationError("nickname", "profile with this nickname already exists.")
	case strings.Contains(constraint, "email"):
		return NewValidationError("email", "user with this email already exists.")
	case strings.Contains(constraint, "username"):
		return NewValidationError("username", "A user with that username already exists.")
	}
	return NewValidationError(NonFieldErrors, "A user with these details already exists.")
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenPair, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		_ = auth.VerifyPassword(dummyHash(), req.Password)
		return nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// last_login is informational; a failed write must not block sign-in
	_ = s.userRepo.TouchLastLogin(ctx, user.ID)

	return s.issueTokens(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, refreshTokenString string) (*dto.TokenPair, error) {
	stored, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	if stored.Revoked {
		return nil, ErrInvalidToken
	}
	if s.now().After(stored.ExpiresAt) {
		_ = s.refreshTokenRepo.Delete(ctx, stored.ID)
		return nil, ErrExpiredToken
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.refreshTokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	return s.issueTokens(ctx, user)
}

func (s *authService) ParseAccessToken(tokenString string) (*policy.Identity, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if typ, _ := claims["type"].(string); typ != tokenTypeAccess {
		return nil, ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}

	identity := &policy.Identity{UserID: userID}
	// numeric claims decode as float64
	if pid, ok := claims["profile_id"].(float64); ok {
		identity.ProfileID = int64(pid)
	}
	if roles, ok := claims["roles"].([]interface{}); ok {
		for _, r := range roles {
			if role, ok := r.(string); ok {
				identity.Roles = append(identity.Roles, role)
			}
		}
	}
	return identity, nil
}

func (s *authService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenPair, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &dto.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	roles := []string(user.Roles)
	if roles == nil {
		roles = []string{}
	}
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"roles":    roles,
		"exp":      now.Add(s.accessTokenTTL).Unix(),
		"iat":      now.Unix(),
		"type":     tokenTypeAccess,
	}
	if user.Profile != nil {
		claims["profile_id"] = user.Profile.ID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: s.now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}
	return refreshToken.Token, nil
}
