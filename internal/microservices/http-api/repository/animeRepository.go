package repository

import (
	"context"
	"fmt"

	"aniverse/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnimeRepository interface {
	List(ctx context.Context, filter AnimeFilter, page, pageSize int) ([]models.Anime, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Anime, error)
	GetByTitle(ctx context.Context, title string) (*models.Anime, error)
	FindByTitles(ctx context.Context, titles []string) ([]models.Anime, error)
	Create(ctx context.Context, a *models.Anime) error
	Update(ctx context.Context, a *models.Anime) error
	Delete(ctx context.Context, id int64) error
}

type animeRepository struct {
	db *gorm.DB
}

func NewAnimeRepository(db *gorm.DB) AnimeRepository {
	return &animeRepository{db: db}
}

func (r *animeRepository) List(ctx context.Context, filter AnimeFilter, page, pageSize int) ([]models.Anime, int64, error) {
	var list []models.Anime
	var total int64

	base := filter.Apply(r.db.WithContext(ctx).Model(&models.Anime{}))

	// Count total records
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count anime: %w", err)
	}
	if total == 0 {
		return list, 0, nil
	}

	if err := base.Session(&gorm.Session{}).
		Preload("Studio").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.id") }).
		Order("anime.id asc").
		Scopes(paginate(page, pageSize)).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list anime: %w", err)
	}
	return list, total, nil
}

func (r *animeRepository) GetByID(ctx context.Context, id int64) (*models.Anime, error) {
	var a models.Anime
	if err := r.db.WithContext(ctx).Preload("Studio").Preload("Genres").First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *animeRepository) GetByTitle(ctx context.Context, title string) (*models.Anime, error) {
	var a models.Anime
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *animeRepository) FindByTitles(ctx context.Context, titles []string) ([]models.Anime, error) {
	var list []models.Anime
	if len(titles) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("title IN ?", titles).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find anime by titles: %w", err)
	}
	return list, nil
}

func (r *animeRepository) Create(ctx context.Context, a *models.Anime) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		genres := a.Genres
		if err := tx.Omit(clause.Associations).Create(a).Error; err != nil {
			return err
		}
		if len(genres) > 0 {
			if err := tx.Model(a).Association("Genres").Append(genres); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create anime: %w", translateError(err))
	}
	// GORM will populate a.ID
	return nil
}

// Update writes every column and replaces the genre set.
func (r *animeRepository) Update(ctx context.Context, a *models.Anime) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		genres := a.Genres
		if err := tx.Omit(clause.Associations).Save(a).Error; err != nil {
			return err
		}
		return tx.Model(a).Association("Genres").Replace(genres)
	})
	if err != nil {
		return fmt.Errorf("update anime: %w", translateError(err))
	}
	return nil
}

// Delete removes the anime; ratings, comments, reviews and collection entries go with it.
func (r *animeRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Anime{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete anime: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
