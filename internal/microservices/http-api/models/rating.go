package models

import "time"

// Rating is unique per (profile, anime); a profile rates many anime but each one only once.
type Rating struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ProfileID int64     `json:"profile_id" gorm:"not null;uniqueIndex:idx_ratings_profile_anime"`
	AnimeID   int64     `json:"anime_id" gorm:"not null;index;uniqueIndex:idx_ratings_profile_anime"`
	Rate      int       `json:"rate" gorm:"not null;check:rate >= 1 AND rate <= 10"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Profile Profile `json:"-" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE;"`
	Anime   Anime   `json:"-" gorm:"foreignKey:AnimeID;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string {
	return "ratings"
}
