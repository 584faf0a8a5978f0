package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a local account. Federated accounts have an empty PasswordHash and
// a GoogleSubject.
type User struct {
	ID            uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Email         string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username      string         `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash  string         `gorm:"not null;default:''" json:"-"`
	GoogleSubject *string        `gorm:"size:255;uniqueIndex" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
