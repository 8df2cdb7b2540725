package models

import "gorm.io/gorm"

const DefaultAnimeImage = "static/pics/empty.svg"

type Anime struct {
	ID               int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Image            string `json:"image" gorm:"size:255;not null;default:'static/pics/empty.svg'"`
	Title            string `json:"title" gorm:"size:516;uniqueIndex;not null"`
	Description      string `json:"description" gorm:"type:text;not null"`
	Type             string `json:"type" gorm:"size:64;not null;index"`
	Episodes         uint16 `json:"episodes" gorm:"not null"`
	ReadyEpisodes    uint16 `json:"ready_episodes" gorm:"not null"`
	LengthOfEpisodes uint16 `json:"length_of_episodes" gorm:"not null"`
	Status           string `json:"status" gorm:"size:64;not null;index"`
	AgeRating        string `json:"age_rating" gorm:"size:36;not null;index"`
	Year             int    `json:"year" gorm:"not null;index"`
	StudioID         int64  `json:"studio_id" gorm:"not null;index"`

	// Associations
	Studio Studio  `json:"studio" gorm:"foreignKey:StudioID;constraint:OnDelete:CASCADE;"`
	Genres []Genre `json:"genres" gorm:"many2many:anime_genres;constraint:OnDelete:CASCADE;"`
}

func (Anime) TableName() string {
	return "anime"
}

// BeforeSave keeps the placeholder image when none was uploaded
func (a *Anime) BeforeSave(_ *gorm.DB) error {
	if a.Image == "" {
		a.Image = DefaultAnimeImage
	}
	return nil
}

type Genre struct {
	ID    int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Title string `json:"title" gorm:"size:128;uniqueIndex;not null"`
}

func (Genre) TableName() string {
	return "genres"
}

type Studio struct {
	ID    int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Title string `json:"title" gorm:"size:255;uniqueIndex;not null"`
}

func (Studio) TableName() string {
	return "studios"
}
