package models

import "time"

type Review struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ProfileID   int64     `json:"profile_id" gorm:"not null;uniqueIndex:idx_reviews_profile_anime"`
	AnimeID     int64     `json:"anime_id" gorm:"not null;index;uniqueIndex:idx_reviews_profile_anime"`
	Storyline   int       `json:"storyline" gorm:"not null;check:storyline BETWEEN 1 AND 5"`
	Characters  int       `json:"characters" gorm:"not null;check:characters BETWEEN 1 AND 5"`
	Artwork     int       `json:"artwork" gorm:"not null;check:artwork BETWEEN 1 AND 5"`
	SoundSeries int       `json:"sound_series" gorm:"not null;check:sound_series BETWEEN 1 AND 5"`
	FinalGrade  int       `json:"final_grade" gorm:"not null;check:final_grade BETWEEN 1 AND 5"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	Date        time.Time `json:"date" gorm:"autoCreateTime;<-:create"`

	Profile Profile `json:"-" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE;"`
	Anime   Anime   `json:"-" gorm:"foreignKey:AnimeID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
