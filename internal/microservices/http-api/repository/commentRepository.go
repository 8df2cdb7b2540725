package repository

import (
	"context"
	"fmt"

	"aniverse/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	UpdateText(ctx context.Context, commentID int64, text string) error
	Delete(ctx context.Context, commentID int64) error
	GetByID(ctx context.Context, commentID int64) (*models.Comment, error)
	// List returns comments, optionally only those on the anime with the given title.
	List(ctx context.Context, animeTitle string, page, pageSize int) ([]models.Comment, int64, error)
	// ListReplies returns the direct children of a comment.
	ListReplies(ctx context.Context, parentID int64, page, pageSize int) ([]models.Comment, int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// withContext preloads what the "reply-to" view needs: author, anime and the immediate parent.
// The author's user row carries the address reply notices go to.
func withContext(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Profile").
		Preload("Profile.User").
		Preload("Anime").
		Preload("Parent").
		Preload("Parent.Profile").
		Preload("Parent.Profile.User").
		Preload("Parent.Anime")
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("Profile", "Anime", "Parent").Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", translateError(err))
	}
	return nil
}

// UpdateText changes only the text; author, anime, parent and created_at stay as created.
func (r *commentRepository) UpdateText(ctx context.Context, commentID int64, text string) error {
	result := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", commentID).Update("text", text)
	if result.Error != nil {
		return fmt.Errorf("update comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the comment; the parent_id cascade removes the whole reply subtree.
func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, commentID)
	if result.Error != nil {
		return fmt.Errorf("delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*models.Comment, error) {
	var comment models.Comment
	if err := withContext(r.db.WithContext(ctx)).First(&comment, commentID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) List(ctx context.Context, animeTitle string, page, pageSize int) ([]models.Comment, int64, error) {
	return r.list(ctx, byAnimeTitle(animeTitle), page, pageSize)
}

func (r *commentRepository) ListReplies(ctx context.Context, parentID int64, page, pageSize int) ([]models.Comment, int64, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("parent_id = ?", parentID)
	}, page, pageSize)
}

func (r *commentRepository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB, page, pageSize int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	err := withContext(r.db.WithContext(ctx)).
		Scopes(scope, paginate(page, pageSize)).
		Order("comments.id asc").
		Find(&comments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}

// byAnimeTitle narrows a comment or review query to one anime; an empty title is no filter.
func byAnimeTitle(title string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if title == "" {
			return db
		}
		anime := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Anime{}).Select("id").Where("title = ?", title)
		return db.Where("anime_id IN (?)", anime)
	}
}
