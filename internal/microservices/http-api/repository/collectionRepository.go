package repository

import (
	"context"
	"fmt"

	"aniverse/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CollectionRepository interface {
	ListByProfile(ctx context.Context, profileID int64, page, pageSize int) ([]models.Collection, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Collection, error)
	Create(ctx context.Context, c *models.Collection) error
	Update(ctx context.Context, c *models.Collection) error
	Delete(ctx context.Context, id int64) error
}

type collectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) ListByProfile(ctx context.Context, profileID int64, page, pageSize int) ([]models.Collection, int64, error) {
	var list []models.Collection
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Collection{}).
		Where("profile_id = ?", profileID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count collections: %w", err)
	}

	if err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Animes").
		Where("profile_id = ?", profileID).
		Order("id asc").
		Scopes(paginate(page, pageSize)).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list collections: %w", err)
	}
	return list, total, nil
}

func (r *collectionRepository) GetByID(ctx context.Context, id int64) (*models.Collection, error) {
	var c models.Collection
	if err := r.db.WithContext(ctx).Preload("Profile").Preload("Animes").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *collectionRepository) Create(ctx context.Context, c *models.Collection) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		animes := c.Animes
		if err := tx.Omit(clause.Associations).Create(c).Error; err != nil {
			return err
		}
		if len(animes) > 0 {
			return tx.Model(c).Association("Animes").Append(animes)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", translateError(err))
	}
	return nil
}

func (r *collectionRepository) Update(ctx context.Context, c *models.Collection) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		animes := c.Animes
		if err := tx.Omit(clause.Associations).Save(c).Error; err != nil {
			return err
		}
		return tx.Model(c).Association("Animes").Replace(animes)
	})
	if err != nil {
		return fmt.Errorf("update collection: %w", translateError(err))
	}
	return nil
}

func (r *collectionRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Collection{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete collection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
