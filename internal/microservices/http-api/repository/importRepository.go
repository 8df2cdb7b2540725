package repository

import (
	"context"
	"errors"
	"fmt"

	"aniverse/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogImportRepository writes anime from an external catalog, creating the
// studio and genres it names on the way.
type CatalogImportRepository interface {
	// UpsertAnime matches on title. It reports whether a new row was created.
	UpsertAnime(ctx context.Context, a *models.Anime, studio string, genres []string) (bool, error)
}

type catalogImportRepository struct {
	db *gorm.DB
}

func NewCatalogImportRepository(db *gorm.DB) CatalogImportRepository {
	return &catalogImportRepository{db: db}
}

func (r *catalogImportRepository) UpsertAnime(ctx context.Context, a *models.Anime, studio string, genres []string) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := findOrCreateStudio(tx, studio)
		if err != nil {
			return fmt.Errorf("studio %q: %w", studio, err)
		}
		a.StudioID = s.ID

		tagged := make([]models.Genre, 0, len(genres))
		for _, title := range genres {
			g, err := findOrCreateGenre(tx, title)
			if err != nil {
				return fmt.Errorf("genre %q: %w", title, err)
			}
			tagged = append(tagged, *g)
		}

		var existing models.Anime
		err = tx.Where("title = ?", a.Title).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			if err := tx.Omit(clause.Associations).Create(a).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			a.ID = existing.ID
			if err := tx.Omit(clause.Associations).Save(a).Error; err != nil {
				return err
			}
		}
		return tx.Model(a).Association("Genres").Replace(tagged)
	})
	if err != nil {
		return false, fmt.Errorf("upsert anime %q: %w", a.Title, translateError(err))
	}
	return created, nil
}

// Inserts ignore a concurrent insert of the same title and re-read the row.
var onTitleConflict = clause.OnConflict{Columns: []clause.Column{{Name: "title"}}, DoNothing: true}

func findOrCreateStudio(tx *gorm.DB, title string) (*models.Studio, error) {
	s := models.Studio{Title: title}
	if err := tx.Where("title = ?", title).Clauses(onTitleConflict).FirstOrCreate(&s).Error; err != nil {
		return nil, err
	}
	if s.ID == 0 {
		if err := tx.Where("title = ?", title).First(&s).Error; err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func findOrCreateGenre(tx *gorm.DB, title string) (*models.Genre, error) {
	g := models.Genre{Title: title}
	if err := tx.Where("title = ?", title).Clauses(onTitleConflict).FirstOrCreate(&g).Error; err != nil {
		return nil, err
	}
	if g.ID == 0 {
		if err := tx.Where("title = ?", title).First(&g).Error; err != nil {
			return nil, err
		}
	}
	return &g, nil
}
