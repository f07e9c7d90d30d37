package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values assignable to a user.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role is one of the known role values.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleModerator || role == RoleAdmin
}

type User struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid"`
	Username         string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email            string    `json:"email" gorm:"uniqueIndex;size:254;not null"`
	Role             string    `json:"role" gorm:"size:20;default:'user';not null"`
	IsStaff          bool      `json:"is_staff" gorm:"default:false;not null"`
	FirstName        string    `json:"first_name" gorm:"size:150"`
	LastName         string    `json:"last_name" gorm:"size:150"`
	Bio              string    `json:"bio" gorm:"type:text"`
	ConfirmationCode *string   `json:"-" gorm:"size:50"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User.
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}
