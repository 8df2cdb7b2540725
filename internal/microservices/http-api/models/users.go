package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Role values stored in users.roles; a user without roles is a regular member.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

type User struct {
	ID        string         `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string         `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Roles     pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"roles"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	LastLogin *time.Time     `json:"last_login,omitempty"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"profile,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Roles == nil {
		user.Roles = pq.StringArray{}
	}
	return
}

func (User) TableName() string {
	return "users"
}

// HasRole reports whether role is in the user's role set
func (user *User) HasRole(role string) bool {
	for _, r := range user.Roles {
		if r == role {
			return true
		}
	}
	return false
}

const (
	SexMale   = "male"
	SexFemale = "female"
	SexOther  = "other"

	DefaultAvatar = "profile_images/default.png"
)

// Profile extends a login identity with community-facing data.
type Profile struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Nickname  string    `gorm:"size:64;uniqueIndex;not null" json:"nickname"`
	Sex       string    `gorm:"size:6;not null" json:"sex"`
	BirthDate time.Time `gorm:"type:date;not null" json:"birth_date"`
	Bio       string    `gorm:"size:250" json:"bio"`
	Avatar    string    `gorm:"size:255" json:"avatar"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeSave(_ *gorm.DB) error {
	if p.Avatar == "" {
		p.Avatar = DefaultAvatar
	}
	return nil
}
