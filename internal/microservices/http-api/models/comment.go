package models

import "time"

// Comment holds only a back-reference to its parent; replies are looked up by parent_id.
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ProfileID int64     `json:"profile_id" gorm:"not null;index"`
	AnimeID   int64     `json:"anime_id" gorm:"not null;index"`
	ParentID  *int64    `json:"parent_id,omitempty" gorm:"index"`
	Text      string    `json:"text" gorm:"size:250;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;<-:create"`

	// Associations
	Profile Profile  `json:"-" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE;"`
	Anime   Anime    `json:"-" gorm:"foreignKey:AnimeID;constraint:OnDelete:CASCADE;"`
	Parent  *Comment `json:"-" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE;"`
}

func (Comment) TableName() string {
	return "comments"
}
