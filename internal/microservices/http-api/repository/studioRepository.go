package repository

import (
	"context"
	"fmt"

	"aniverse/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type StudioRepository interface {
	List(ctx context.Context, page, pageSize int) ([]models.Studio, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Studio, error)
	GetByTitle(ctx context.Context, title string) (*models.Studio, error)
	Create(ctx context.Context, s *models.Studio) error
	Update(ctx context.Context, s *models.Studio) error
	Delete(ctx context.Context, id int64) error
}

type studioRepository struct {
	db *gorm.DB
}

func NewStudioRepository(db *gorm.DB) StudioRepository {
	return &studioRepository{db: db}
}

func (r *studioRepository) List(ctx context.Context, page, pageSize int) ([]models.Studio, int64, error) {
	var list []models.Studio
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Studio{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count studios: %w", err)
	}
	if err := r.db.WithContext(ctx).Order("id asc").Scopes(paginate(page, pageSize)).Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("get studios: %w", err)
	}
	return list, total, nil
}

func (r *studioRepository) GetByID(ctx context.Context, id int64) (*models.Studio, error) {
	var s models.Studio
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studioRepository) GetByTitle(ctx context.Context, title string) (*models.Studio, error) {
	var s models.Studio
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studioRepository) Create(ctx context.Context, s *models.Studio) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("create studio: %w", translateError(err))
	}
	return nil
}

func (r *studioRepository) Update(ctx context.Context, s *models.Studio) error {
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		return fmt.Errorf("update studio: %w", translateError(err))
	}
	return nil
}

// Delete removes the studio; its anime are removed by the foreign key cascade.
func (r *studioRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Studio{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete studio: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
