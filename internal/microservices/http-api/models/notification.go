package models

import "time"

// Notification is the inbox copy of a reply notice delivered by the notify worker.
type Notification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID int64     `gorm:"not null;index" json:"profile_id"`
	CommentID int64     `gorm:"not null" json:"comment_id"`
	Subject   string    `gorm:"not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Associations
	Profile *Profile `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
