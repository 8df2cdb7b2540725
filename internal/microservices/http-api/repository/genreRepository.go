package repository

import (
	"context"
	"fmt"

	"aniverse/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type GenreRepository interface {
	List(ctx context.Context, page, pageSize int) ([]models.Genre, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Genre, error)
	FindByTitles(ctx context.Context, titles []string) ([]models.Genre, error)
	Create(ctx context.Context, g *models.Genre) error
	Update(ctx context.Context, g *models.Genre) error
	Delete(ctx context.Context, id int64) error
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) List(ctx context.Context, page, pageSize int) ([]models.Genre, int64, error) {
	var list []models.Genre
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Genre{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count genres: %w", err)
	}
	if err := r.db.WithContext(ctx).Order("id asc").Scopes(paginate(page, pageSize)).Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("get genres: %w", err)
	}
	return list, total, nil
}

func (r *genreRepository) GetByID(ctx context.Context, id int64) (*models.Genre, error) {
	var g models.Genre
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *genreRepository) FindByTitles(ctx context.Context, titles []string) ([]models.Genre, error) {
	var list []models.Genre
	if len(titles) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("title IN ?", titles).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}
	return list, nil
}

func (r *genreRepository) Create(ctx context.Context, g *models.Genre) error {
	if err := r.db.WithContext(ctx).Create(g).Error; err != nil {
		return fmt.Errorf("create genre: %w", translateError(err))
	}
	return nil
}

func (r *genreRepository) Update(ctx context.Context, g *models.Genre) error {
	if err := r.db.WithContext(ctx).Save(g).Error; err != nil {
		return fmt.Errorf("update genre: %w", translateError(err))
	}
	return nil
}

// Delete removes the genre together with every anime tagged with it.
func (r *genreRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteGenreCascade(tx, id)
	})
}

// deleteGenreCascade deletes the tagged anime first; their own FKs take the
// ratings, comments, reviews and collection entries with them.
func deleteGenreCascade(tx *gorm.DB, id int64) error {
	tagged := tx.Session(&gorm.Session{NewDB: true}).
		Table("anime_genres").Select("anime_id").Where("genre_id = ?", id)
	if err := tx.Where("id IN (?)", tagged).Delete(&models.Anime{}).Error; err != nil {
		return fmt.Errorf("delete tagged anime: %w", err)
	}
	result := tx.Delete(&models.Genre{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete genre: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
