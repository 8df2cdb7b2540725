package repository

import (
	"context"
	"fmt"

	"aniverse/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// RateCount is one bucket of the rating histogram.
type RateCount struct {
	Rate  int
	Count int64
}

type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	Update(ctx context.Context, rating *models.Rating) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Rating, error)
	GetByProfileAndAnime(ctx context.Context, profileID, animeID int64) (*models.Rating, error)
	// Average returns the mean rate and the number of ratings for an anime.
	Average(ctx context.Context, animeID int64) (float64, int64, error)
	// Distribution returns one bucket per rate that occurs, ascending by rate.
	Distribution(ctx context.Context, animeID int64) ([]RateCount, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).Omit("Profile", "Anime").Create(rating).Error; err != nil {
		return fmt.Errorf("create rating: %w", translateError(err))
	}
	return nil
}

func (r *ratingRepository) Update(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).Omit("Profile", "Anime").Save(rating).Error; err != nil {
		return fmt.Errorf("update rating: %w", translateError(err))
	}
	return nil
}

func (r *ratingRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Rating{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete rating: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ratingRepository) GetByID(ctx context.Context, id int64) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Anime").
		First(&rating, id).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) GetByProfileAndAnime(ctx context.Context, profileID, animeID int64) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND anime_id = ?", profileID, animeID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) Average(ctx context.Context, animeID int64) (float64, int64, error) {
	var agg struct {
		Average float64
		Total   int64
	}
	err := averageQuery(r.db.WithContext(ctx), animeID).Scan(&agg).Error
	if err != nil {
		return 0, 0, fmt.Errorf("average rating: %w", err)
	}
	return agg.Average, agg.Total, nil
}

func (r *ratingRepository) Distribution(ctx context.Context, animeID int64) ([]RateCount, error) {
	var rows []RateCount
	err := distributionQuery(r.db.WithContext(ctx), animeID).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("rating distribution: %w", err)
	}
	return rows, nil
}

func averageQuery(db *gorm.DB, animeID int64) *gorm.DB {
	return db.Model(&models.Rating{}).
		Select("COALESCE(AVG(rate), 0) AS average, COUNT(*) AS total").
		Where("anime_id = ?", animeID)
}

// distributionQuery counts only the rates that occur, lowest first.
func distributionQuery(db *gorm.DB, animeID int64) *gorm.DB {
	return db.Model(&models.Rating{}).
		Select("rate, COUNT(*) AS count").
		Where("anime_id = ?", animeID).
		Group("rate").
		Order("rate asc")
}
