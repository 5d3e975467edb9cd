package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a back-office staff account.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Name         *string    `gorm:"column:name"`
	Status       string     `gorm:"column:status;not null;default:'active'"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// IsActive reports whether the account may authenticate.
func (u User) IsActive() bool {
	return u.Status == "active"
}
