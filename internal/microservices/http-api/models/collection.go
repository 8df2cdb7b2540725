package models

import "time"

type Collection struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"size:128;not null"`
	ProfileID int64     `json:"profile_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Profile Profile `json:"-" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE;"`
	Animes  []Anime `json:"animes" gorm:"many2many:collection_animes;constraint:OnDelete:CASCADE;"`
}

func (Collection) TableName() string {
	return "collections"
}
